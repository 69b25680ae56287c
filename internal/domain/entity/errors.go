package entity

import "errors"

// User-facing rejections. Every one of them leaves marketplace state unchanged.
var (
	ErrMissingRequiredField  = errors.New("missing required field")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrAuctionNotBiddable    = errors.New("auction items cannot be added to the cart")
	ErrBidTooLow             = errors.New("bid too low")
	ErrAuctionEnded          = errors.New("auction has ended")
	ErrMissingBidderIdentity = errors.New("bidder contact is required")
	ErrListingNotFound       = errors.New("listing not found")
	ErrNotAnAuction          = errors.New("listing is not an auction")
	ErrInvalidEndTime        = errors.New("invalid auction end time")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrInvalidCondition      = errors.New("invalid condition")
	ErrInvalidLogistics      = errors.New("invalid logistics option")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrMailUnavailable       = errors.New("mail delivery is not configured")
)

// ErrorReason returns a short machine-readable reason for a rejection, used as
// a metrics label and an HTTP error code.
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingRequiredField):
		return "missing_required_field"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrAuctionNotBiddable):
		return "auction_not_biddable"
	case errors.Is(err, ErrBidTooLow):
		return "bid_too_low"
	case errors.Is(err, ErrAuctionEnded):
		return "auction_ended"
	case errors.Is(err, ErrMissingBidderIdentity):
		return "missing_bidder_identity"
	case errors.Is(err, ErrListingNotFound):
		return "listing_not_found"
	case errors.Is(err, ErrNotAnAuction):
		return "not_an_auction"
	case errors.Is(err, ErrInvalidEndTime):
		return "invalid_end_time"
	case errors.Is(err, ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, ErrInvalidCondition):
		return "invalid_condition"
	case errors.Is(err, ErrInvalidLogistics):
		return "invalid_logistics"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrMailUnavailable):
		return "mail_unavailable"
	default:
		return "internal_error"
	}
}
