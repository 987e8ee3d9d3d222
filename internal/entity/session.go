package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConversationMessage is one role-tagged entry in a quotation session's
// guided-intake history.
type ConversationMessage struct {
	Role      string            `json:"role"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// db model
type QuotationSession struct {
	Id                  uuid.UUID             `json:"id" db:"id"`
	UserId              uuid.UUID             `json:"userId" db:"user_id"`
	SessionNumber       string                `json:"sessionNumber" db:"session_number"`
	Status              string                `json:"status" db:"status"`
	ConversationHistory []ConversationMessage `json:"conversationHistory" db:"conversation_history"`
	ServiceCategory     string                `json:"serviceCategory" db:"service_category"`
	ServiceDescription  string                `json:"serviceDescription" db:"service_description"`
	Location            string                `json:"location" db:"location"`
	PreferredDate       *string               `json:"preferredDate" db:"preferred_date"`
	PreferredTime       string                `json:"preferredTime" db:"preferred_time"`
	BudgetRangeMin      *decimal.Decimal      `json:"budgetRangeMin" db:"budget_range_min"`
	BudgetRangeMax      *decimal.Decimal      `json:"budgetRangeMax" db:"budget_range_max"`
	SpecialRequirements string                `json:"specialRequirements" db:"special_requirements"`
	Photos              []string              `json:"photos" db:"photos"`
	EstimatedPrice      *decimal.Decimal      `json:"estimatedPrice" db:"estimated_price"`
	EstimatedDuration   *int                  `json:"estimatedDuration" db:"estimated_duration"`
	ConfidenceScore     *decimal.Decimal      `json:"confidenceScore" db:"confidence_score"`
	ConvertedToAuction  bool                  `json:"convertedToAuction" db:"converted_to_auction"`
	AuctionId           *uuid.UUID            `json:"auctionId" db:"auction_id"`
	CreatedAt           string                `json:"createdAt" db:"created_at"`
	UpdatedAt           string                `json:"updatedAt" db:"updated_at"`
	CompletedAt         *string               `json:"completedAt" db:"completed_at"`
}

// service + repo input model
type CreateSessionInput struct {
	UserId              string // given
	ServiceCategory     string
	ServiceDescription  string
	Location            string
	PreferredDate       string // given, optional, ISO date
	PreferredTime       string
	BudgetRangeMin      *decimal.Decimal
	BudgetRangeMax      *decimal.Decimal
	SpecialRequirements string
	Photos              []string
	SessionNumber       string // should be set by the service
	Status              string // should be set: "in_progress"
}

// controller model
type SessionOutputModel struct {
	Id                  string                `json:"id"`
	UserId              string                `json:"userId"`
	SessionNumber       string                `json:"sessionNumber"`
	Status              string                `json:"status"`
	ConversationHistory []ConversationMessage `json:"conversationHistory"`
	ServiceCategory     string                `json:"serviceCategory,omitempty"`
	ServiceDescription  string                `json:"serviceDescription,omitempty"`
	Location            string                `json:"location,omitempty"`
	PreferredDate       *string               `json:"preferredDate,omitempty"`
	PreferredTime       string                `json:"preferredTime,omitempty"`
	BudgetRangeMin      *decimal.Decimal      `json:"budgetRangeMin,omitempty"`
	BudgetRangeMax      *decimal.Decimal      `json:"budgetRangeMax,omitempty"`
	SpecialRequirements string                `json:"specialRequirements,omitempty"`
	Photos              []string              `json:"photos,omitempty"`
	EstimatedPrice      *decimal.Decimal      `json:"estimatedPrice,omitempty"`
	EstimatedDuration   *int                  `json:"estimatedDuration,omitempty"`
	ConfidenceScore     *decimal.Decimal      `json:"confidenceScore,omitempty"`
	ConvertedToAuction  bool                  `json:"convertedToAuction"`
	AuctionId           string                `json:"auctionId,omitempty"`
	CreatedAt           string                `json:"createdAt"`
	CompletedAt         *string               `json:"completedAt,omitempty"`
}

type SessionListOutput struct {
	Items []SessionOutputModel `json:"items"`
	Total int                  `json:"total"`
}

// ConversionOutput is returned when a session is converted: the updated
// session plus the auction it produced.
type ConversionOutput struct {
	Session *SessionOutputModel `json:"session"`
	Auction *AuctionOutputModel `json:"auction"`
}
