package common

import "strings"

// Auction statuses.
const (
	AuctionDraft     = "draft"
	AuctionPublished = "published"
	AuctionBidding   = "bidding"
	AuctionReviewing = "reviewing"
	AuctionSelected  = "selected"
	AuctionExpired   = "expired"
	AuctionCancelled = "cancelled"
)

// Bid statuses.
const (
	BidSubmitted   = "submitted"
	BidUnderReview = "under_review"
	BidShortlisted = "shortlisted"
	BidSelected    = "selected"
	BidRejected    = "rejected"
)

// Quotation session statuses.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionAbandoned  = "abandoned"
)

// AuctionEvent is a bid-side event that may advance the parent auction.
type AuctionEvent string

const (
	// EventBidSubmitted fires when a bid is accepted on the auction.
	EventBidSubmitted AuctionEvent = "bid_submitted"
	// EventBidInReview fires when a bid moves to under_review or shortlisted.
	EventBidInReview AuctionEvent = "bid_in_review"
)

// NextAuctionStatus returns the auction status after a bid-side event.
// Transitions are forward-only: an auction never moves backwards from
// reviewing or selected through this path.
func NextAuctionStatus(current string, event AuctionEvent) string {
	switch event {
	case EventBidSubmitted:
		if current == AuctionPublished {
			return AuctionBidding
		}
	case EventBidInReview:
		if current != AuctionReviewing && current != AuctionSelected {
			return AuctionReviewing
		}
	}

	return current
}

// BidStatusAliases maps legacy filter values still sent by older clients
// to the statuses stored today. Only the bid list filter consults it.
var BidStatusAliases = map[string]string{
	"pending":  BidSubmitted,
	"declined": BidRejected,
}

// NormalizeBidStatusFilter splits a comma-separated status filter,
// lowercases each value and resolves legacy aliases. Empty parts are
// dropped.
func NormalizeBidStatusFilter(filter string) []string {
	parts := strings.Split(filter, ",")
	statuses := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.ToLower(strings.TrimSpace(p))
		if s == "" {
			continue
		}
		if mapped, ok := BidStatusAliases[s]; ok {
			s = mapped
		}
		statuses = append(statuses, s)
	}

	return statuses
}
