package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestMarketplace() *Marketplace {
	return NewMarketplace("session-1", testNow)
}

func TestNewMarketplace_Seed(t *testing.T) {
	m := newTestMarketplace()

	require.Len(t, m.Listings, 4)
	for _, l := range m.Listings {
		assert.NoError(t, l.CheckShape(), l.ID)
	}
	tv, err := m.Listing("2")
	require.NoError(t, err)
	assert.True(t, tv.IsAuction())
	assert.Equal(t, testNow.Add(2*time.Hour), tv.Auction.EndTime)
	assert.Empty(t, m.Cart.ListingIDs)
}

func TestScenarioA_FixedPriceQuote(t *testing.T) {
	m := newTestMarketplace()

	changed, err := m.AddToCart("1")
	require.NoError(t, err)
	assert.True(t, changed)

	q := m.Quote(DefaultCommissionRate)
	assert.Equal(t, Dollars(80), q.Subtotal)
	assert.Equal(t, Dollars(24), q.Commission)
	assert.Equal(t, Dollars(104), q.Total)
}

func TestQuote_DeliveryFeeIncluded(t *testing.T) {
	m := newTestMarketplace()
	_, err := m.AddToCart("4")
	require.NoError(t, err)
	_, err = m.AddToCart("3")
	require.NoError(t, err)

	q := m.Quote(DefaultCommissionRate)
	require.Len(t, q.Lines, 2)
	assert.Equal(t, "4", q.Lines[0].ListingID)
	assert.Equal(t, Dollars(42), q.Lines[0].Amount)
	assert.Equal(t, Dollars(132), q.Subtotal)
	assert.Equal(t, Money(3960), q.Commission)
	assert.Equal(t, q.Subtotal+q.Commission, q.Total)
}

func TestQuote_LargestPricesStayPositive(t *testing.T) {
	m := newTestMarketplace()
	for i := 0; i < 3; i++ {
		d := validSaleDraft()
		d.Price = "10000000000"
		d.DeliveryFee = "10000000000"
		id := fmt.Sprintf("big-%d", i)
		_, err := m.CreateListing(d, BuildOptions{Now: testNow, Location: time.UTC, NewID: func() string { return id }})
		require.NoError(t, err)
		_, err = m.AddToCart(id)
		require.NoError(t, err)
	}

	q := m.Quote(DefaultCommissionRate)
	assert.Equal(t, 6*MaxAmount, q.Subtotal)
	assert.Positive(t, int64(q.Commission))
	assert.Equal(t, q.Subtotal+q.Commission, q.Total)
	assert.Greater(t, q.Total, q.Subtotal)
}

func TestPlaceBid_HugeAmountRejected(t *testing.T) {
	m := newTestMarketplace()
	_, err := m.PlaceBid("2", "1e17", "a@b.co", testNow)
	require.ErrorIs(t, err, ErrInvalidAmount)

	tv, err := m.Listing("2")
	require.NoError(t, err)
	assert.Equal(t, Dollars(60), tv.Auction.CurrentBid)
}

func TestQuote_EmptyCart(t *testing.T) {
	q := newTestMarketplace().Quote(DefaultCommissionRate)
	assert.Empty(t, q.Lines)
	assert.Zero(t, q.Subtotal)
	assert.Zero(t, q.Commission)
	assert.Zero(t, q.Total)
}

func TestAddToCart_Idempotent(t *testing.T) {
	m := newTestMarketplace()

	_, err := m.AddToCart("1")
	require.NoError(t, err)
	changed, err := m.AddToCart("1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"1"}, m.Cart.ListingIDs)
}

func TestScenarioC_AuctionNotCartable(t *testing.T) {
	m := newTestMarketplace()
	_, err := m.AddToCart("1")
	require.NoError(t, err)

	_, err = m.AddToCart("2")
	require.ErrorIs(t, err, ErrAuctionNotBiddable)
	assert.Equal(t, []string{"1"}, m.Cart.ListingIDs)
}

func TestAddToCart_UnknownListing(t *testing.T) {
	m := newTestMarketplace()
	_, err := m.AddToCart("nope")
	require.ErrorIs(t, err, ErrListingNotFound)
	assert.Empty(t, m.Cart.ListingIDs)
}

func TestRemoveFromCart(t *testing.T) {
	m := newTestMarketplace()
	_, _ = m.AddToCart("1")
	_, _ = m.AddToCart("3")
	snapshot := m.Cart

	assert.True(t, m.RemoveFromCart("1"))
	assert.False(t, m.RemoveFromCart("1"))
	assert.False(t, m.RemoveFromCart("missing"))
	assert.Equal(t, []string{"3"}, m.Cart.ListingIDs)
	assert.Equal(t, []string{"1", "3"}, snapshot.ListingIDs)
}

func TestScenarioB_BidBoundary(t *testing.T) {
	m := newTestMarketplace()
	before := m.Listings

	_, err := m.PlaceBid("2", "60", "a@example.com", testNow)
	require.ErrorIs(t, err, ErrBidTooLow)
	assert.Contains(t, err.Error(), "$61.00")
	assert.Equal(t, before, m.Listings)

	_, err = m.PlaceBid("2", "60.99", "a@example.com", testNow)
	require.ErrorIs(t, err, ErrBidTooLow)

	updated, err := m.PlaceBid("2", "61", "a@example.com", testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, Dollars(61), updated.Auction.CurrentBid)
	assert.Equal(t, "a@example.com", updated.Auction.HighestBidderContact)
	require.Len(t, updated.Auction.Bids, 1)
	assert.Equal(t, Bid{Amount: Dollars(61), BidderContact: "a@example.com", Timestamp: testNow.Add(time.Minute)}, updated.Auction.Bids[0])

	stored, err := m.Listing("2")
	require.NoError(t, err)
	assert.Equal(t, updated, stored)

	// the previous catalog slice still shows the old value
	assert.Equal(t, Dollars(60), before[1].Auction.CurrentBid)
	assert.Empty(t, before[1].Auction.Bids)
}

func TestScenarioD_EndedAuction(t *testing.T) {
	m := newTestMarketplace()
	later := testNow.Add(48 * time.Hour)

	st, err := m.AuctionStatus("2", later)
	require.NoError(t, err)
	assert.True(t, st.Ended)
	assert.False(t, st.ReserveMet)
	assert.Equal(t, "Auction ended – Reserve NOT met", st.Label)

	_, err = m.PlaceBid("2", "500", "late@example.com", later)
	require.ErrorIs(t, err, ErrAuctionEnded)

	tv, _ := m.Listing("2")
	assert.Equal(t, Dollars(60), tv.Auction.CurrentBid)
}

func TestPlaceBid_AtEndTimeRejected(t *testing.T) {
	m := newTestMarketplace()
	_, err := m.PlaceBid("2", "70", "a@example.com", testNow.Add(2*time.Hour))
	require.ErrorIs(t, err, ErrAuctionEnded)

	_, err = m.PlaceBid("2", "70", "a@example.com", testNow.Add(2*time.Hour-time.Second))
	require.NoError(t, err)
}

func TestPlaceBid_ValidationOrder(t *testing.T) {
	testCases := []struct {
		name    string
		id      string
		amount  string
		contact string
		wantErr error
	}{
		{name: "missing contact wins", id: "missing", amount: "x", contact: "  ", wantErr: ErrMissingBidderIdentity},
		{name: "non-numeric amount", id: "2", amount: "lots", contact: "a@b.c", wantErr: ErrInvalidAmount},
		{name: "blank amount", id: "2", amount: "", contact: "a@b.c", wantErr: ErrInvalidAmount},
		{name: "zero amount", id: "2", amount: "0", contact: "a@b.c", wantErr: ErrInvalidAmount},
		{name: "negative amount", id: "2", amount: "-5", contact: "a@b.c", wantErr: ErrInvalidAmount},
		{name: "unknown listing", id: "99", amount: "100", contact: "a@b.c", wantErr: ErrListingNotFound},
		{name: "fixed price listing", id: "1", amount: "100", contact: "a@b.c", wantErr: ErrNotAnAuction},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMarketplace()
			_, err := m.PlaceBid(tc.id, tc.amount, tc.contact, testNow)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAuctionStatus_Labels(t *testing.T) {
	m := newTestMarketplace()

	st, err := m.AuctionStatus("2", testNow.Add(30*time.Minute+5*time.Second))
	require.NoError(t, err)
	assert.False(t, st.Ended)
	assert.Equal(t, "Ends in 01:29:55", st.Label)
	assert.Equal(t, int64(5395), st.RemainingSeconds)

	_, err = m.PlaceBid("2", "80", "a@example.com", testNow)
	require.NoError(t, err)
	st, err = m.AuctionStatus("2", testNow.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Auction ended – Reserve met", st.Label)

	_, err = m.AuctionStatus("1", testNow)
	require.ErrorIs(t, err, ErrNotAnAuction)
}

func TestCountdown(t *testing.T) {
	assert.Equal(t, "Ended", Countdown(0))
	assert.Equal(t, "00:00:01", Countdown(1500*time.Millisecond))
	assert.Equal(t, "26:00:00", Countdown(26*time.Hour))
}

func TestApplyFilter(t *testing.T) {
	testCases := []struct {
		name    string
		filter  Filter
		wantIDs []string
		wantErr error
	}{
		{name: "no criteria", filter: Filter{}, wantIDs: []string{"1", "2", "3", "4"}},
		{name: "query is case-insensitive", filter: Filter{Query: "TIMBER"}, wantIDs: []string{"1"}},
		{name: "query matches location", filter: Filter{Query: "ryde"}, wantIDs: []string{"2"}},
		{name: "query spans fields", filter: Filter{Query: "age. Parramatta"}, wantIDs: []string{"1"}},
		{name: "category", filter: Filter{Category: CategoryFurniture}, wantIDs: []string{"1", "3"}},
		{name: "condition", filter: Filter{Condition: ConditionFair}, wantIDs: []string{"2"}},
		{name: "all criteria combined", filter: Filter{Query: "table", Category: CategoryFurniture, Condition: ConditionGood}, wantIDs: []string{"3"}},
		{name: "no matches", filter: Filter{Query: "piano"}, wantIDs: []string{}},
		{name: "unknown category", filter: Filter{Category: "Toys"}, wantErr: ErrInvalidCategory},
		{name: "unknown condition", filter: Filter{Condition: "Mint"}, wantErr: ErrInvalidCondition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMarketplace()
			got, err := m.ApplyFilter(tc.filter)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, Filter{}, m.Filter)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, l := range got {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
			assert.Equal(t, tc.filter, m.Filter)
		})
	}
}

func TestCreateListing_PrependsAndKeepsUniqueIDs(t *testing.T) {
	m := newTestMarketplace()
	ids := []string{"1", "3", "fresh"}
	opts := BuildOptions{
		Now: testNow,
		NewID: func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	}

	d := DefaultDraft()
	d.Title = "Desk lamp"
	d.Description = "Brass, works"
	d.Location = "Ryde, NSW"
	d.Price = "15"

	l, err := m.CreateListing(d, opts)
	require.NoError(t, err)
	assert.Equal(t, "fresh", l.ID)
	require.Len(t, m.Listings, 5)
	assert.Equal(t, "fresh", m.Listings[0].ID)
}

func TestCreateListing_RejectionLeavesCatalog(t *testing.T) {
	m := newTestMarketplace()
	before := m.Listings

	_, err := m.CreateListing(ListingDraft{Title: "x"}, BuildOptions{Now: testNow, NewID: func() string { return "n" }})
	require.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Equal(t, before, m.Listings)
}
