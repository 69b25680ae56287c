package entity

// Cart is an insertion-ordered set of fixed-price listing ids. Add and Remove
// never modify the backing array in place, so earlier snapshots stay valid.
type Cart struct {
	ListingIDs []string `json:"listingIds"`
}

func (c Cart) Contains(listingID string) bool {
	for _, id := range c.ListingIDs {
		if id == listingID {
			return true
		}
	}
	return false
}

func (c Cart) Len() int {
	return len(c.ListingIDs)
}

// Add inserts listingID if absent and reports whether the cart changed.
func (c *Cart) Add(listingID string) bool {
	if c.Contains(listingID) {
		return false
	}
	ids := make([]string, len(c.ListingIDs), len(c.ListingIDs)+1)
	copy(ids, c.ListingIDs)
	c.ListingIDs = append(ids, listingID)
	return true
}

// Remove drops listingID if present and reports whether the cart changed.
func (c *Cart) Remove(listingID string) bool {
	if !c.Contains(listingID) {
		return false
	}
	ids := make([]string, 0, len(c.ListingIDs)-1)
	for _, id := range c.ListingIDs {
		if id != listingID {
			ids = append(ids, id)
		}
	}
	c.ListingIDs = ids
	return true
}
