package service

import (
	"context"
	"fmt"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

type Diagnostics interface {
	Ping() error
}

type Auction interface {
	CreateAuction(ctx context.Context, consumerId string, input *entity.CreateAuctionInput) (*entity.AuctionOutputModel, error)
	GetAuctionById(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error)
	PublishAuction(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error)
	ListAuctions(ctx context.Context, consumerId string, status string) (*entity.AuctionListOutput, error)
	SearchAuctions(ctx context.Context, f *entity.AuctionSearchFilter, page int, limit int) (*entity.AuctionSearchOutput, error)
	SelectBid(ctx context.Context, auctionId string, bidId string, reason string) (*entity.SelectionOutput, error)
}

type Bid interface {
	CreateBid(ctx context.Context, userId string, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetBidById(ctx context.Context, bidId string) (*entity.BidOutputModel, error)
	ListBidsByAuction(ctx context.Context, auctionId string) (*entity.BidListOutput, error)
	FindBids(ctx context.Context, providerId string, statusFilter string, page int, limit int) (*entity.BidPageOutput, error)
	UpdateBidStatus(ctx context.Context, bidId string, newStatus string, reason string) (*entity.BidOutputModel, error)
}

type QuotationSession interface {
	CreateSession(ctx context.Context, userId string, input *entity.CreateSessionInput) (*entity.SessionOutputModel, error)
	ListSessions(ctx context.Context, userId string) (*entity.SessionListOutput, error)
	GetSessionById(ctx context.Context, sessionId string) (*entity.SessionOutputModel, error)
	AddMessage(ctx context.Context, sessionId string, userId string, message string, metadata map[string]string) (*entity.SessionOutputModel, error)
	CompleteSession(ctx context.Context, sessionId string, userId string) (*entity.SessionOutputModel, error)
	ConvertToAuction(ctx context.Context, sessionId string, userId string) (*entity.ConversionOutput, error)
}

// Consumed collaborator contracts. Their internals live outside this
// core; the engine depends only on these interfaces.

type ProviderDirectory interface {
	GetProviderByUserId(ctx context.Context, userId string) (*entity.ProviderProfile, error)
	FindProvidersByCategory(ctx context.Context, categoryId string, limit int) ([]entity.ProviderProfile, error)
}

type NotificationDispatcher interface {
	Notify(ctx context.Context, userId string, kind string, title string, body string, meta *entity.NotificationMeta) error
}

type BookingFactory interface {
	CreateFromAuction(ctx context.Context, auctionId string, bidId string) (*entity.Booking, error)
}

type Services struct {
	Diagnostics Diagnostics
	Auction     Auction
	Bid         Bid
	Session     QuotationSession
}

type Deps struct {
	Repos     *repo.Repositories
	Providers ProviderDirectory
	Notifier  NotificationDispatcher
	Bookings  BookingFactory
	Logger    *zap.Logger
}

func NewServices(deps *Deps) *Services {
	auctionService := NewAuctionService(deps)

	return &Services{
		Diagnostics: NewDiagnosticsService(deps.Repos),
		Auction:     auctionService,
		Bid:         NewBidService(deps),
		Session:     NewSessionService(deps, auctionService),
	}
}

const notificationKindAuction = "auction"

const numberTokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newTrackingNumber builds a human-readable reference like
// AUCT-1735689600123-x4k92mf01. The random suffix makes collisions
// negligible; the store's unique constraint is the real guarantee.
func newTrackingNumber(prefix string) string {
	token := make([]byte, 9)
	for i := range token {
		token[i] = numberTokenAlphabet[rand.Intn(len(numberTokenAlphabet))]
	}

	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), token)
}
