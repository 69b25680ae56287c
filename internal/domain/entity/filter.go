package entity

import (
	"fmt"
	"strings"
)

// Filter holds the browse criteria. Zero values impose no constraint.
type Filter struct {
	Query     string    `json:"query"`
	Category  Category  `json:"category,omitempty"`
	Condition Condition `json:"condition,omitempty"`
}

func (f Filter) Validate() error {
	if f.Category != "" && !f.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, f.Category)
	}
	if f.Condition != "" && !f.Condition.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCondition, f.Condition)
	}
	return nil
}

func (f Filter) Matches(l Listing) bool {
	if f.Query != "" {
		haystack := strings.ToLower(l.Title + " " + l.Description + " " + l.Location)
		if !strings.Contains(haystack, strings.ToLower(f.Query)) {
			return false
		}
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.Condition != "" && l.Condition != f.Condition {
		return false
	}
	return true
}

// FilterListings returns the listings matching f in source order.
func FilterListings(listings []Listing, f Filter) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
