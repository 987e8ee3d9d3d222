package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Auction struct {
	Id                  uuid.UUID        `json:"id" db:"id"`
	AuctionNumber       string           `json:"auctionNumber" db:"auction_number"`
	ConsumerId          uuid.UUID        `json:"consumerId" db:"consumer_id"`
	ServiceCategoryId   *uuid.UUID       `json:"serviceCategoryId" db:"service_category_id"`
	ServiceTitle        string           `json:"serviceTitle" db:"service_title"`
	ServiceDescription  string           `json:"serviceDescription" db:"service_description"`
	ServiceRequirements string           `json:"serviceRequirements" db:"service_requirements"`
	ServiceLocation     string           `json:"serviceLocation" db:"service_location"`
	LocationLatitude    *decimal.Decimal `json:"locationLatitude" db:"location_latitude"`
	LocationLongitude   *decimal.Decimal `json:"locationLongitude" db:"location_longitude"`
	PreferredDate       *string          `json:"preferredDate" db:"preferred_date"`
	PreferredTime       string           `json:"preferredTime" db:"preferred_time"`
	Deadline            *string          `json:"deadline" db:"deadline"`
	BudgetMin           *decimal.Decimal `json:"budgetMin" db:"budget_min"`
	BudgetMax           *decimal.Decimal `json:"budgetMax" db:"budget_max"`
	AiFairPrice         *decimal.Decimal `json:"aiFairPrice" db:"ai_fair_price"`
	Photos              []string         `json:"photos" db:"photos"`
	Documents           []string         `json:"documents" db:"documents"`
	AutoSelectEnabled   bool             `json:"autoSelectEnabled" db:"auto_select_enabled"`
	MaxBidsToReceive    *int             `json:"maxBidsToReceive" db:"max_bids_to_receive"`
	Status              string           `json:"status" db:"status"`
	TotalViews          int              `json:"totalViews" db:"total_views"`
	TotalBids           int              `json:"totalBids" db:"total_bids"`
	SelectedBidId       *uuid.UUID       `json:"selectedBidId" db:"selected_bid_id"`
	SelectionReason     string           `json:"selectionReason" db:"selection_reason"`
	SelectedAt          *string          `json:"selectedAt" db:"selected_at"`
	CreatedAt           string           `json:"createdAt" db:"created_at"`
	UpdatedAt           string           `json:"updatedAt" db:"updated_at"`
	ExpiredAt           *string          `json:"expiredAt" db:"expired_at"`
}

// service + repo input model
type CreateAuctionInput struct {
	ConsumerId          string // given
	ServiceCategoryId   string // given, optional
	ServiceTitle        string // given
	ServiceDescription  string // given
	ServiceRequirements string // given, optional
	ServiceLocation     string // given
	LocationLatitude    *decimal.Decimal
	LocationLongitude   *decimal.Decimal
	PreferredDate       string // given, optional, ISO date
	PreferredTime       string
	Deadline            string // given, optional, RFC3339
	BudgetMin           *decimal.Decimal
	BudgetMax           *decimal.Decimal
	AiFairPrice         *decimal.Decimal
	Photos              []string
	Documents           []string
	AutoSelectEnabled   bool
	MaxBidsToReceive    *int
	AuctionNumber       string // should be set by the service
	Status              string // should be set: "draft"
	// Id UUID sets automatically
	// CreatedAt sets automatically
}

// controller model
type AuctionOutputModel struct {
	Id                  string           `json:"id"`
	AuctionNumber       string           `json:"auctionNumber"`
	ConsumerId          string           `json:"consumerId"`
	ServiceCategoryId   string           `json:"serviceCategoryId,omitempty"`
	ServiceTitle        string           `json:"serviceTitle"`
	ServiceDescription  string           `json:"serviceDescription"`
	ServiceRequirements string           `json:"serviceRequirements,omitempty"`
	ServiceLocation     string           `json:"serviceLocation"`
	LocationLatitude    *decimal.Decimal `json:"locationLatitude,omitempty"`
	LocationLongitude   *decimal.Decimal `json:"locationLongitude,omitempty"`
	PreferredDate       *string          `json:"preferredDate,omitempty"`
	PreferredTime       string           `json:"preferredTime,omitempty"`
	Deadline            *string          `json:"deadline,omitempty"`
	BudgetMin           *decimal.Decimal `json:"budgetMin,omitempty"`
	BudgetMax           *decimal.Decimal `json:"budgetMax,omitempty"`
	AiFairPrice         *decimal.Decimal `json:"aiFairPrice,omitempty"`
	Photos              []string         `json:"photos,omitempty"`
	Documents           []string         `json:"documents,omitempty"`
	AutoSelectEnabled   bool             `json:"autoSelectEnabled"`
	MaxBidsToReceive    *int             `json:"maxBidsToReceive,omitempty"`
	Status              string           `json:"status"`
	TotalViews          int              `json:"totalViews"`
	TotalBids           int              `json:"totalBids"`
	SelectedBidId       string           `json:"selectedBidId,omitempty"`
	SelectionReason     string           `json:"selectionReason,omitempty"`
	SelectedAt          *string          `json:"selectedAt,omitempty"`
	CreatedAt           string           `json:"createdAt"`
	UpdatedAt           string           `json:"updatedAt"`
	ExpiredAt           *string          `json:"expiredAt,omitempty"`
}

type AuctionListOutput struct {
	Items []AuctionOutputModel `json:"items"`
	Total int                  `json:"total"`
}

// SelectionOutput is the compound payload returned by a successful bid
// selection: the updated auction plus the booking created from it.
type SelectionOutput struct {
	Auction *AuctionOutputModel `json:"auction"`
	Booking *BookingOutputModel `json:"booking"`
}
