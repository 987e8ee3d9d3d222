package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextAuctionStatus(t *testing.T) {
	tests := []struct {
		name    string
		current string
		event   AuctionEvent
		want    string
	}{
		{"first bid opens bidding", AuctionPublished, EventBidSubmitted, AuctionBidding},
		{"later bids keep bidding", AuctionBidding, EventBidSubmitted, AuctionBidding},
		{"bid on draft changes nothing", AuctionDraft, EventBidSubmitted, AuctionDraft},
		{"review moves published forward", AuctionPublished, EventBidInReview, AuctionReviewing},
		{"review moves bidding forward", AuctionBidding, EventBidInReview, AuctionReviewing},
		{"review keeps reviewing", AuctionReviewing, EventBidInReview, AuctionReviewing},
		{"review never leaves selected", AuctionSelected, EventBidInReview, AuctionSelected},
		{"bid on selected changes nothing", AuctionSelected, EventBidSubmitted, AuctionSelected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NextAuctionStatus(tt.current, tt.event))
		})
	}
}

func TestNormalizeBidStatusFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"empty filter", "", []string{}},
		{"single status", "submitted", []string{BidSubmitted}},
		{"legacy pending alias", "pending", []string{BidSubmitted}},
		{"legacy declined alias", "declined", []string{BidRejected}},
		{"mixed case and spaces", " Pending , SHORTLISTED ", []string{BidSubmitted, BidShortlisted}},
		{"empty parts dropped", "submitted,,rejected,", []string{BidSubmitted, BidRejected}},
		{"unknown values pass through", "withdrawn", []string{"withdrawn"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeBidStatusFilter(tt.filter))
		})
	}
}
