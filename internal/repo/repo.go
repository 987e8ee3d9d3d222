package repo

import (
	"context"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/pkg/postgres"

	"marketplace-matching-api/internal/repo/pgdb"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type Auction interface {
	CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (uuid.UUID, error)
	GetAuctionById(ctx context.Context, id string) (*entity.Auction, error)
	// ViewAuctionById is the detail-fetch read: it increments the view
	// counter as a side effect of every successful call.
	ViewAuctionById(ctx context.Context, id string) (*entity.Auction, error)
	UpdateAuctionStatusById(ctx context.Context, id string, newStatus string) error
	ListAuctions(ctx context.Context, consumerId string, status string) ([]entity.Auction, error)
	SearchAuctions(ctx context.Context, f *entity.AuctionSearchFilter, pg *entity.PaginationInput) ([]entity.Auction, int, error)
	CountAuctions(ctx context.Context, f *entity.AuctionSearchFilter) (int, error)
	// RegisterBid bumps the bid counter and moves the auction to the
	// given status in one write.
	RegisterBid(ctx context.Context, auctionId string, newStatus string) error
	// MarkSelected records the winning bid. The update is guarded on
	// selected_bid_id being null; a lost race returns ErrConflict.
	MarkSelected(ctx context.Context, auctionId string, bidId string, reason string) error
	// ClearSelection reverts a selection, putting the auction back to
	// reviewing with all selection fields nulled.
	ClearSelection(ctx context.Context, auctionId string) error
	// ExpireOverdue marks every open auction whose deadline has passed
	// as expired and reports how many rows changed. Driven by an
	// external scheduler.
	ExpireOverdue(ctx context.Context) (int, error)
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetBidByAuctionAndProvider(ctx context.Context, auctionId string, providerId string) (*entity.Bid, error)
	ListBidsByAuction(ctx context.Context, auctionId string) ([]entity.Bid, int, error)
	FindBids(ctx context.Context, providerId string, statuses []string, pg *entity.PaginationInput) ([]entity.Bid, int, error)
	UpdateBidStatusById(ctx context.Context, id string, newStatus string, withdrawalReason string) error
	MarkBidSelected(ctx context.Context, id string) error
	RevertBidSelection(ctx context.Context, id string) error
}

type QuotationSession interface {
	CreateSession(ctx context.Context, input *entity.CreateSessionInput) (uuid.UUID, error)
	GetSessionById(ctx context.Context, id string) (*entity.QuotationSession, error)
	ListSessionsByUser(ctx context.Context, userId string) ([]entity.QuotationSession, int, error)
	AppendMessages(ctx context.Context, id string, messages []entity.ConversationMessage) error
	CompleteSession(ctx context.Context, id string) error
	// MarkConverted is one-shot: converting an already converted
	// session returns ErrConflict.
	MarkConverted(ctx context.Context, id string, auctionId uuid.UUID) error
}

type Repositories struct {
	Diagnostics
	Auction
	Bid
	QuotationSession
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics:      pgdb.NewDiagnosticsRepo(p),
		Auction:          pgdb.NewAuctionRepo(p),
		Bid:              pgdb.NewBidRepo(p),
		QuotationSession: pgdb.NewSessionRepo(p),
	}
}
