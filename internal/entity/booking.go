package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is the downstream record a selected bid converts into. Its
// lifecycle is owned by the booking collaborator; this core only
// creates it and returns it in the selection payload.
type Booking struct {
	Id            uuid.UUID       `json:"id" db:"id"`
	BookingNumber string          `json:"bookingNumber" db:"booking_number"`
	AuctionId     uuid.UUID       `json:"auctionId" db:"auction_id"`
	BidId         uuid.UUID       `json:"bidId" db:"bid_id"`
	ConsumerId    uuid.UUID       `json:"consumerId" db:"consumer_id"`
	ProviderId    uuid.UUID       `json:"providerId" db:"provider_id"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     string          `json:"createdAt" db:"created_at"`
}

// controller model
type BookingOutputModel struct {
	Id            string          `json:"id"`
	BookingNumber string          `json:"bookingNumber"`
	AuctionId     string          `json:"auctionId"`
	BidId         string          `json:"bidId"`
	ConsumerId    string          `json:"consumerId"`
	ProviderId    string          `json:"providerId"`
	Price         decimal.Decimal `json:"price"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
}
