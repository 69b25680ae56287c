package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultVerifiedSource = "NDIS Cleanout"
	defaultHubName        = "Cleanout Hub – Parramatta"
	defaultHubAddress     = "12 Example St, Parramatta NSW"
	defaultHubWindowsText = "Mon 10–12, Tue 2–4"

	maxIDAttempts = 8
)

var endTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// ListingDraft is the listing creation form as the seller filled it in.
// Numbers stay as typed until Build validates them.
type ListingDraft struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	Category       Category   `json:"category"`
	Condition      Condition  `json:"condition"`
	SaleType       SaleType   `json:"saleType"`
	Price          FormNumber `json:"price"`
	DeliveryFee    FormNumber `json:"deliveryFee"`
	ReservePrice   FormNumber `json:"reservePrice"`
	EndTime        string     `json:"endTime"`
	Pickup         bool       `json:"pickup"`
	Photos         []string   `json:"photos"`
	VerifiedSource string     `json:"verifiedSource"`

	PrimaryOption             PrimaryOption `json:"primaryOption"`
	HubDropWindowsText        string        `json:"hubDropWindowsText"`
	SellerDeliveryWindowsText string        `json:"sellerDeliveryWindowsText"`

	AllowBuyerPickupAtSeller bool   `json:"allowBuyerPickupAtSeller"`
	BuyerPickupWindowsText   string `json:"buyerPickupWindowsText"`
	BuyerPickupSafePlace     bool   `json:"buyerPickupSafePlace"`

	AllowPickup   bool `json:"allowPickup"`
	AllowDelivery bool `json:"allowDelivery"`

	AllowHub       bool       `json:"allowHub"`
	HubName        string     `json:"hubName"`
	HubAddress     string     `json:"hubAddress"`
	HubHandlingFee FormNumber `json:"hubHandlingFee"`
	HubWindowsText string     `json:"hubWindowsText"`

	SpecialistPickupFee       FormNumber `json:"specialistPickupFee"`
	SpecialistDeliveryFromHub bool       `json:"specialistDeliveryFromHub"`
	SpecialistDeliveryFee     FormNumber `json:"specialistDeliveryFee"`
}

// DefaultDraft is the state of a freshly opened creation form.
func DefaultDraft() ListingDraft {
	return ListingDraft{
		SaleType:       SaleTypeFixedPrice,
		Category:       CategoryFurniture,
		Condition:      ConditionGood,
		Pickup:         true,
		Photos:         []string{},
		VerifiedSource: defaultVerifiedSource,
		AllowHub:       true,
		HubName:        defaultHubName,
		HubAddress:     defaultHubAddress,
		HubWindowsText: defaultHubWindowsText,
	}
}

type BuildOptions struct {
	Now              time.Time
	Location         *time.Location // zone of datetime-local end times
	PlaceholderPhoto string
	NewID            func() string
	Exists           func(id string) bool
}

// Build validates the draft and turns it into a listing. The first violated
// rule is reported.
func (d ListingDraft) Build(opts BuildOptions) (Listing, error) {
	title := strings.TrimSpace(d.Title)
	description := strings.TrimSpace(d.Description)
	location := strings.TrimSpace(d.Location)
	if title == "" || description == "" || location == "" {
		return Listing{}, fmt.Errorf("%w: fill all required fields", ErrMissingRequiredField)
	}

	saleType := d.SaleType
	if saleType == "" {
		saleType = SaleTypeFixedPrice
	}
	if !saleType.Valid() {
		return Listing{}, fmt.Errorf("%w: sale type must be %q or %q", ErrMissingRequiredField, SaleTypeFixedPrice, SaleTypeAuction)
	}

	l := Listing{
		Title:          title,
		Description:    description,
		Location:       location,
		Pickup:         d.Pickup,
		SaleType:       saleType,
		VerifiedSource: strings.TrimSpace(d.VerifiedSource),
		CreatedAt:      opts.Now,
	}

	var err error
	switch saleType {
	case SaleTypeFixedPrice:
		l.FixedPrice, err = d.fixedPriceTerms()
	case SaleTypeAuction:
		l.Auction, err = d.auctionTerms(opts)
	}
	if err != nil {
		return Listing{}, err
	}

	if l.Category, err = d.category(); err != nil {
		return Listing{}, err
	}
	if l.Condition, err = d.condition(); err != nil {
		return Listing{}, err
	}

	logistics, err := d.logistics()
	if err != nil {
		return Listing{}, err
	}
	if l.FixedPrice != nil {
		l.FixedPrice.DeliveryFee = d.deliveryFee()
		l.FixedPrice.Logistics = logistics
	}

	l.Photos = cleanList(d.Photos)
	if len(l.Photos) == 0 {
		placeholder := opts.PlaceholderPhoto
		if placeholder == "" {
			placeholder = PlaceholderPhoto
		}
		l.Photos = []string{placeholder}
	}

	if l.ID, err = allocateID(opts.NewID, opts.Exists); err != nil {
		return Listing{}, err
	}
	return l, nil
}

func (d ListingDraft) fixedPriceTerms() (*FixedPriceTerms, error) {
	price, err := d.Price.Amount()
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, fmt.Errorf("%w: enter a price for fixed-price sale", ErrMissingRequiredField)
	}
	if *price <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than zero", ErrInvalidAmount)
	}
	return &FixedPriceTerms{Price: *price}, nil
}

func (d ListingDraft) auctionTerms(opts BuildOptions) (*AuctionTerms, error) {
	endText := strings.TrimSpace(d.EndTime)
	reserve, err := d.ReservePrice.Amount()
	if err != nil {
		return nil, err
	}
	if reserve == nil || endText == "" {
		return nil, fmt.Errorf("%w: enter a reserve price and an end time for the auction", ErrMissingRequiredField)
	}
	if *reserve <= 0 {
		return nil, fmt.Errorf("%w: reserve price must be greater than zero", ErrInvalidAmount)
	}

	end, err := parseEndTime(endText, opts.Location)
	if err != nil {
		return nil, err
	}
	if end.Before(opts.Now.Truncate(time.Minute)) {
		return nil, fmt.Errorf("%w: end time %s is in the past", ErrInvalidEndTime, endText)
	}

	return &AuctionTerms{
		ReservePrice: *reserve,
		EndTime:      end,
		Bids:         []Bid{},
	}, nil
}

func (d ListingDraft) category() (Category, error) {
	if d.Category == "" {
		return CategoryFurniture, nil
	}
	if !d.Category.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, d.Category)
	}
	return d.Category, nil
}

func (d ListingDraft) condition() (Condition, error) {
	if d.Condition == "" {
		return ConditionGood, nil
	}
	if !d.Condition.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCondition, d.Condition)
	}
	return d.Condition, nil
}

func (d ListingDraft) logistics() (Logistics, error) {
	if _, err := optionalFee("delivery fee", d.DeliveryFee); err != nil {
		return Logistics{}, err
	}
	handlingFee, err := optionalFee("hub handling fee", d.HubHandlingFee)
	if err != nil {
		return Logistics{}, err
	}
	pickupFee, err := optionalFee("specialist pickup fee", d.SpecialistPickupFee)
	if err != nil {
		return Logistics{}, err
	}
	specialistFee, err := optionalFee("specialist delivery fee", d.SpecialistDeliveryFee)
	if err != nil {
		return Logistics{}, err
	}
	if !d.PrimaryOption.Valid() {
		return Logistics{}, fmt.Errorf("%w: %q", ErrInvalidLogistics, d.PrimaryOption)
	}

	l := Logistics{
		Primary:               d.PrimaryOption,
		HubDropWindows:        splitWindows(d.HubDropWindowsText),
		SellerDeliveryWindows: splitWindows(d.SellerDeliveryWindowsText),
		PickupAtSeller:        d.AllowPickup,
		Delivery:              d.AllowDelivery,
		BuyerPickup: BuyerPickup{
			Allowed:   d.AllowBuyerPickupAtSeller,
			Windows:   splitWindows(d.BuyerPickupWindowsText),
			SafePlace: d.BuyerPickupSafePlace,
		},
		Hub: Hub{
			Allowed:     d.AllowHub,
			Name:        strings.TrimSpace(d.HubName),
			Address:     strings.TrimSpace(d.HubAddress),
			HandlingFee: handlingFee,
			Windows:     splitWindows(d.HubWindowsText),
		},
		Specialist: Specialist{
			PickupFee:       pickupFee,
			DeliveryFromHub: d.SpecialistDeliveryFromHub,
			DeliveryFee:     specialistFee,
		},
	}
	l.Specialist.PickupToHub = l.SupportPickupToHub()
	return l, nil
}

// deliveryFee lives on the price terms. logistics has already validated it.
func (d ListingDraft) deliveryFee() *Money {
	fee, _ := d.DeliveryFee.Amount()
	return fee
}

func optionalFee(name string, n FormNumber) (*Money, error) {
	fee, err := n.Amount()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if fee != nil && *fee < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidAmount, name)
	}
	return fee, nil
}

func parseEndTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range endTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidEndTime, s)
}

// splitWindows turns "Mon 10–12, Tue 2–4" into trimmed, non-empty entries.
func splitWindows(text string) []string {
	return cleanList(strings.Split(text, ","))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var errIDExhausted = errors.New("could not allocate a unique listing id")

func allocateID(newID func() string, exists func(string) bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := newID()
		if id != "" && (exists == nil || !exists(id)) {
			return id, nil
		}
	}
	return "", errIDExhausted
}
