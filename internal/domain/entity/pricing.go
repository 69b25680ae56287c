package entity

import "math"

// DefaultCommissionRate is the platform commission added on top of fixed-price
// sales.
const DefaultCommissionRate = 0.30

type QuoteLine struct {
	ListingID   string `json:"listingId"`
	Title       string `json:"title"`
	Price       Money  `json:"price"`
	DeliveryFee *Money `json:"deliveryFee,omitempty"`
	Amount      Money  `json:"amount"`
}

type Quote struct {
	Lines          []QuoteLine `json:"lines"`
	Subtotal       Money       `json:"subtotal"`
	Commission     Money       `json:"commission"`
	Total          Money       `json:"total"`
	CommissionRate float64     `json:"commissionRate"`
}

// QuoteCart prices the given cart listings. Listings without fixed-price terms
// are skipped. Total is always exactly Subtotal + Commission.
func QuoteCart(listings []Listing, rate float64) Quote {
	q := Quote{Lines: make([]QuoteLine, 0, len(listings)), CommissionRate: rate}
	for _, l := range listings {
		if l.FixedPrice == nil {
			continue
		}
		line := QuoteLine{
			ListingID:   l.ID,
			Title:       l.Title,
			Price:       l.FixedPrice.Price,
			DeliveryFee: l.FixedPrice.DeliveryFee,
			Amount:      l.FixedPrice.LineAmount(),
		}
		q.Lines = append(q.Lines, line)
		q.Subtotal += line.Amount
	}
	q.Commission = q.Subtotal.MulRate(rate)
	q.Total = q.Subtotal + q.Commission
	return q
}

// CommissionPercent renders the rate as a whole percentage for message text.
func CommissionPercent(rate float64) int {
	return int(math.Round(rate * 100))
}
