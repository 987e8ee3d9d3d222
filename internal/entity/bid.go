package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PortfolioItem is one reference work attached to a bid.
type PortfolioItem struct {
	Url         string `json:"url"`
	Caption     string `json:"caption,omitempty"`
	Description string `json:"description,omitempty"`
}

// db model
type Bid struct {
	Id                     uuid.UUID        `json:"id" db:"id"`
	AuctionId              uuid.UUID        `json:"auctionId" db:"auction_id"`
	ProviderId             uuid.UUID        `json:"providerId" db:"provider_id"`
	ProposedPrice          decimal.Decimal  `json:"proposedPrice" db:"proposed_price"`
	EstimatedDuration      *decimal.Decimal `json:"estimatedDuration" db:"estimated_duration"`
	WorkPlan               string           `json:"workPlan" db:"work_plan"`
	PortfolioItems         []PortfolioItem  `json:"portfolioItems" db:"portfolio_items"`
	ProposedStartDate      *string          `json:"proposedStartDate" db:"proposed_start_date"`
	ProposedCompletionDate *string          `json:"proposedCompletionDate" db:"proposed_completion_date"`
	AdditionalComment      string           `json:"additionalComment" db:"additional_comment"`
	CreditsSpent           int              `json:"creditsSpent" db:"credits_spent"`
	AiMatchScore           *decimal.Decimal `json:"aiMatchScore" db:"ai_match_score"`
	AiRecommendation       string           `json:"aiRecommendation" db:"ai_recommendation"`
	Status                 string           `json:"status" db:"status"`
	SubmittedAt            string           `json:"submittedAt" db:"submitted_at"`
	ReviewedAt             *string          `json:"reviewedAt" db:"reviewed_at"`
	SelectedAt             *string          `json:"selectedAt" db:"selected_at"`
	WithdrawalReason       string           `json:"withdrawalReason" db:"withdrawal_reason"`
	CreatedAt              string           `json:"createdAt" db:"created_at"`
	UpdatedAt              string           `json:"updatedAt" db:"updated_at"`
}

// service + repo input model
type CreateBidInput struct {
	AuctionId              string          // given
	ProposedPrice          decimal.Decimal // given
	EstimatedDuration      *decimal.Decimal
	WorkPlan               string
	PortfolioItems         []PortfolioItem
	ProposedStartDate      string // given, optional, ISO date
	ProposedCompletionDate string // given, optional, ISO date
	AdditionalComment      string
	AiMatchScore           *decimal.Decimal
	AiRecommendation       string
	ProviderId             string // should be set by the service after profile resolution
	Status                 string // should be set: "submitted"
	// Id UUID sets automatically
	// SubmittedAt / CreatedAt set automatically
}

// controller model
type BidOutputModel struct {
	Id                     string           `json:"id"`
	AuctionId              string           `json:"auctionId"`
	ProviderId             string           `json:"providerId"`
	ProposedPrice          decimal.Decimal  `json:"proposedPrice"`
	EstimatedDuration      *decimal.Decimal `json:"estimatedDuration,omitempty"`
	WorkPlan               string           `json:"workPlan,omitempty"`
	PortfolioItems         []PortfolioItem  `json:"portfolioItems,omitempty"`
	ProposedStartDate      *string          `json:"proposedStartDate,omitempty"`
	ProposedCompletionDate *string          `json:"proposedCompletionDate,omitempty"`
	AdditionalComment      string           `json:"additionalComment,omitempty"`
	CreditsSpent           int              `json:"creditsSpent"`
	AiMatchScore           *decimal.Decimal `json:"aiMatchScore,omitempty"`
	AiRecommendation       string           `json:"aiRecommendation,omitempty"`
	Status                 string           `json:"status"`
	SubmittedAt            string           `json:"submittedAt"`
	ReviewedAt             *string          `json:"reviewedAt,omitempty"`
	SelectedAt             *string          `json:"selectedAt,omitempty"`
	WithdrawalReason       string           `json:"withdrawalReason,omitempty"`
	CreatedAt              string           `json:"createdAt"`
}

type BidListOutput struct {
	Items []BidOutputModel `json:"items"`
	Total int              `json:"total"`
}

type BidPageOutput struct {
	Items      []BidOutputModel `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}
