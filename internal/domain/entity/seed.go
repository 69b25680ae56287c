package entity

import "time"

// PlaceholderPhoto is used for listings created without photos.
const PlaceholderPhoto = "https://images.unsplash.com/photo-1519710164239-da123dc03ef4?q=80&w=1200&auto=format&fit=crop"

// SeedListings returns the catalog every new session starts with. The seeded
// auction closes two hours after now.
func SeedListings(now time.Time) []Listing {
	return []Listing{
		{
			ID:             "1",
			Title:          "Timber Bookshelf (1.8m)",
			Description:    "Solid timber shelf from a cleanout. Wiped and inspected. Scuffs consistent with age.",
			Location:       "Parramatta, NSW",
			Category:       CategoryFurniture,
			Condition:      ConditionGood,
			Photos:         []string{PlaceholderPhoto},
			VerifiedSource: defaultVerifiedSource,
			Pickup:         true,
			SaleType:       SaleTypeFixedPrice,
			FixedPrice:     &FixedPriceTerms{Price: Dollars(80)},
			CreatedAt:      now,
		},
		{
			ID:             "2",
			Title:          `Samsung 40" TV (2017)`,
			Description:    "Power tested. HDMI works. Remote included.",
			Location:       "Ryde, NSW",
			Category:       CategoryElectronics,
			Condition:      ConditionFair,
			Photos:         []string{"https://images.unsplash.com/photo-1593359677879-641f2be0d93e?q=80&w=1200&auto=format&fit=crop"},
			VerifiedSource: defaultVerifiedSource,
			Pickup:         true,
			SaleType:       SaleTypeAuction,
			Auction: &AuctionTerms{
				ReservePrice: Dollars(80),
				EndTime:      now.Add(2 * time.Hour),
				CurrentBid:   Dollars(60),
				Bids:         []Bid{},
			},
			CreatedAt: now,
		},
		{
			ID:             "3",
			Title:          "Dining Table (4-seater)",
			Description:    "Laminate top, sturdy. Minor wear on edges.",
			Location:       "Blacktown, NSW",
			Category:       CategoryFurniture,
			Condition:      ConditionGood,
			Photos:         []string{PlaceholderPhoto},
			VerifiedSource: defaultVerifiedSource,
			Pickup:         true,
			SaleType:       SaleTypeFixedPrice,
			FixedPrice:     &FixedPriceTerms{Price: Dollars(90)},
			CreatedAt:      now,
		},
		{
			ID:             "4",
			Title:          "Assorted Novels Bundle (x20)",
			Description:    "Mixed authors. Cleaned and sorted.",
			Location:       "Auburn, NSW",
			Category:       CategoryBooksMedia,
			Condition:      ConditionGood,
			Photos:         []string{"https://images.unsplash.com/photo-1519681393784-d120267933ba?q=80&w=1200&auto=format&fit=crop"},
			VerifiedSource: defaultVerifiedSource,
			Pickup:         false,
			SaleType:       SaleTypeFixedPrice,
			FixedPrice: &FixedPriceTerms{
				Price:       Dollars(30),
				DeliveryFee: moneyPtr(Dollars(12)),
				Logistics:   Logistics{Delivery: true},
			},
			CreatedAt: now,
		},
	}
}
