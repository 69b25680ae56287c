package entity

type (
	Category  string
	Condition string
	SaleType  string
)

const (
	CategoryFurniture   Category = "Furniture"
	CategoryElectronics Category = "Electronics"
	CategoryBooksMedia  Category = "Books & Media"
	CategoryHomewares   Category = "Homewares"
	CategoryTools       Category = "Tools"

	ConditionNew       Condition = "New"
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionForParts  Condition = "For Parts"

	SaleTypeFixedPrice SaleType = "sale"
	SaleTypeAuction    SaleType = "auction"
)

var (
	Categories = []Category{CategoryFurniture, CategoryElectronics, CategoryBooksMedia, CategoryHomewares, CategoryTools}
	Conditions = []Condition{ConditionNew, ConditionExcellent, ConditionGood, ConditionFair, ConditionForParts}
)

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Condition) Valid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

func (s SaleType) Valid() bool {
	return s == SaleTypeFixedPrice || s == SaleTypeAuction
}
