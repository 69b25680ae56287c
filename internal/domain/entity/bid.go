package entity

import (
	"fmt"
	"time"
)

// minimumIncrement is the fixed step above the current leading bid.
const minimumIncrement Money = 100

// Bid is appended to an auction's history when accepted and never changed.
type Bid struct {
	Amount        Money     `json:"amount"`
	BidderContact string    `json:"bidderContact"`
	Timestamp     time.Time `json:"timestamp"`
}

type AuctionStatus struct {
	Ended            bool          `json:"ended"`
	ReserveMet       bool          `json:"reserveMet"`
	Remaining        time.Duration `json:"-"`
	RemainingSeconds int64         `json:"remainingSeconds"`
	Label            string        `json:"label"`
}

// Status derives the Open/Ended state from now. The auction is over once now
// reaches EndTime.
func (a AuctionTerms) Status(now time.Time) AuctionStatus {
	remaining := a.EndTime.Sub(now)
	st := AuctionStatus{
		Ended:      remaining <= 0,
		ReserveMet: a.ReserveMet(),
	}
	switch {
	case st.Ended && st.ReserveMet:
		st.Label = "Auction ended – Reserve met"
	case st.Ended:
		st.Label = "Auction ended – Reserve NOT met"
	default:
		st.Remaining = remaining
		st.RemainingSeconds = int64(remaining / time.Second)
		st.Label = "Ends in " + Countdown(remaining)
	}
	return st
}

func (a AuctionTerms) ReserveMet() bool {
	return a.CurrentBid >= a.ReservePrice
}

// MinimumBid is the lowest amount the next bid may carry.
func (a AuctionTerms) MinimumBid() Money {
	current := a.CurrentBid
	if current < 0 {
		current = 0
	}
	return current + minimumIncrement
}

// Countdown formats a remaining duration as HH:MM:SS, or "Ended".
func Countdown(d time.Duration) string {
	if d <= 0 {
		return "Ended"
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// withBid returns a copy of the listing carrying the accepted bid. The receiver
// and its bid history are left untouched.
func (l Listing) withBid(amount Money, contact string, now time.Time) (Listing, error) {
	a := l.Auction
	if minBid := a.MinimumBid(); amount < minBid {
		return Listing{}, fmt.Errorf("%w: bid must be at least %s", ErrBidTooLow, minBid)
	}
	if !now.Before(a.EndTime) {
		return Listing{}, ErrAuctionEnded
	}

	bids := make([]Bid, len(a.Bids), len(a.Bids)+1)
	copy(bids, a.Bids)
	bids = append(bids, Bid{Amount: amount, BidderContact: contact, Timestamp: now})

	terms := *a
	terms.Bids = bids
	terms.CurrentBid = amount
	terms.HighestBidderContact = contact

	updated := l
	updated.Auction = &terms
	return updated, nil
}
