package entity

import (
	"fmt"
	"time"
)

// Listing is a single item offered for resale. Exactly one of FixedPrice and
// Auction is set, matching SaleType.
type Listing struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Location       string           `json:"location"`
	Category       Category         `json:"category"`
	Condition      Condition        `json:"condition"`
	Photos         []string         `json:"photos"`
	VerifiedSource string           `json:"verifiedSource,omitempty"`
	Pickup         bool             `json:"pickup"`
	SaleType       SaleType         `json:"saleType"`
	FixedPrice     *FixedPriceTerms `json:"fixedPrice,omitempty"`
	Auction        *AuctionTerms    `json:"auction,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type FixedPriceTerms struct {
	Price       Money     `json:"price"`
	DeliveryFee *Money    `json:"deliveryFee,omitempty"`
	Logistics   Logistics `json:"logistics"`
}

// LineAmount is what one unit costs the buyer before commission.
func (t FixedPriceTerms) LineAmount() Money {
	if t.DeliveryFee == nil {
		return t.Price
	}
	return t.Price + *t.DeliveryFee
}

type AuctionTerms struct {
	ReservePrice         Money     `json:"reservePrice"`
	EndTime              time.Time `json:"endTime"`
	CurrentBid           Money     `json:"currentBid"`
	HighestBidderContact string    `json:"highestBidderContact"`
	Bids                 []Bid     `json:"bids"`
}

type PrimaryOption string

const (
	PrimaryNone           PrimaryOption = ""
	PrimaryHubDrop        PrimaryOption = "hub-drop"
	PrimarySellerDelivery PrimaryOption = "seller-delivery"
	PrimarySupportToHub   PrimaryOption = "support-to-hub"
)

func (p PrimaryOption) Valid() bool {
	switch p {
	case PrimaryNone, PrimaryHubDrop, PrimarySellerDelivery, PrimarySupportToHub:
		return true
	}
	return false
}

// Logistics describes how a fixed-price item changes hands. One primary option
// is expected; buyer pickup at the seller is an independent add-on.
type Logistics struct {
	Primary               PrimaryOption `json:"primaryOption,omitempty"`
	HubDropWindows        []string      `json:"hubDropWindows,omitempty"`
	SellerDeliveryWindows []string      `json:"sellerDeliveryWindows,omitempty"`
	PickupAtSeller        bool          `json:"allowPickup"`
	Delivery              bool          `json:"allowDelivery"`
	BuyerPickup           BuyerPickup   `json:"buyerPickup"`
	Hub                   Hub           `json:"hub"`
	Specialist            Specialist    `json:"specialist"`
}

func (l Logistics) SupportPickupToHub() bool {
	return l.Primary == PrimarySupportToHub
}

type BuyerPickup struct {
	Allowed   bool     `json:"allowed"`
	Windows   []string `json:"windows,omitempty"`
	SafePlace bool     `json:"safePlace"`
}

type Hub struct {
	Allowed     bool     `json:"allowed"`
	Name        string   `json:"name,omitempty"`
	Address     string   `json:"address,omitempty"`
	HandlingFee *Money   `json:"handlingFee,omitempty"`
	Windows     []string `json:"windows,omitempty"`
}

type Specialist struct {
	PickupToHub     bool   `json:"pickupToHub"`
	PickupFee       *Money `json:"pickupFee,omitempty"`
	DeliveryFromHub bool   `json:"deliveryFromHub"`
	DeliveryFee     *Money `json:"deliveryFee,omitempty"`
}

func (l Listing) IsAuction() bool {
	return l.SaleType == SaleTypeAuction
}

// CheckShape verifies the sale-type invariant of the tagged union.
func (l Listing) CheckShape() error {
	switch l.SaleType {
	case SaleTypeFixedPrice:
		if l.FixedPrice == nil || l.Auction != nil {
			return fmt.Errorf("listing %s: fixed-price listing must carry only fixed-price terms", l.ID)
		}
	case SaleTypeAuction:
		if l.Auction == nil || l.FixedPrice != nil {
			return fmt.Errorf("listing %s: auction listing must carry only auction terms", l.ID)
		}
		if l.Auction.EndTime.IsZero() {
			return fmt.Errorf("listing %s: auction listing has no end time", l.ID)
		}
	default:
		return fmt.Errorf("listing %s: unknown sale type %q", l.ID, l.SaleType)
	}
	if len(l.Photos) == 0 {
		return fmt.Errorf("listing %s: no photos", l.ID)
	}
	return nil
}

// Status reports the auction state at now. It is never cached.
func (l Listing) Status(now time.Time) (AuctionStatus, bool) {
	if l.Auction == nil {
		return AuctionStatus{}, false
	}
	return l.Auction.Status(now), true
}
