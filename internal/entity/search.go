package entity

import "github.com/shopspring/decimal"

// AuctionSearchFilter carries the optional search criteria. Zero values
// mean "not filtered".
type AuctionSearchFilter struct {
	Keyword   string
	Category  string
	Status    string
	Location  string
	BudgetMin *decimal.Decimal
	BudgetMax *decimal.Decimal
}

type AuctionSearchOutput struct {
	Items      []AuctionOutputModel `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"totalPages"`
	Debug      *SearchDebug         `json:"debug,omitempty"`
}

// SearchDebug explains an empty result set by counting matches for each
// filter taken alone. Diagnostic aid only.
type SearchDebug struct {
	Message         string          `json:"message"`
	FilterBreakdown FilterBreakdown `json:"filterBreakdown"`
}

type FilterBreakdown struct {
	Category *FilterCount `json:"category"`
	Status   *FilterCount `json:"status"`
	Location *FilterCount `json:"location"`
}

type FilterCount struct {
	Value   string `json:"value"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}
