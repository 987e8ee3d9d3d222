package service

import (
	"context"
	"errors"
	"fmt"
	"marketplace-matching-api/internal/common"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo"
	"marketplace-matching-api/internal/repo/repo_errors"
	"time"

	"go.uber.org/zap"
)

// How many providers a single auction fan-out may reach.
const providerFanOutLimit = 1000

type AuctionService struct {
	auctionRepo repo.Auction
	bidRepo     repo.Bid
	providers   ProviderDirectory
	notifier    NotificationDispatcher
	bookings    BookingFactory
	log         *zap.Logger
}

func NewAuctionService(deps *Deps) *AuctionService {
	return &AuctionService{
		auctionRepo: deps.Repos.Auction,
		bidRepo:     deps.Repos.Bid,
		providers:   deps.Providers,
		notifier:    deps.Notifier,
		bookings:    deps.Bookings,
		log:         deps.Logger,
	}
}

func (s *AuctionService) CreateAuction(ctx context.Context, consumerId string, input *entity.CreateAuctionInput) (*entity.AuctionOutputModel, error) {
	input.ConsumerId = consumerId
	input.AuctionNumber = newTrackingNumber("AUCT")
	input.Status = common.AuctionDraft

	id, err := s.auctionRepo.CreateAuction(ctx, input)
	if err != nil {
		return nil, err
	}

	auction, err := s.auctionRepo.GetAuctionById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	s.notifyProvidersAboutNewAuction(ctx, auction)

	return mapAuction(auction), nil
}

// notifyProvidersAboutNewAuction fans out to every provider whose
// specialty matches the auction's category. Best-effort: failures are
// logged and swallowed, never surfaced to the caller.
func (s *AuctionService) notifyProvidersAboutNewAuction(ctx context.Context, auction *entity.Auction) {
	if auction.ServiceCategoryId == nil {
		s.log.Warn("auction has no service category, skipping provider fan-out",
			zap.String("auctionId", auction.Id.String()))

		return
	}

	providers, err := s.providers.FindProvidersByCategory(ctx, auction.ServiceCategoryId.String(), providerFanOutLimit)
	if err != nil {
		s.log.Error("provider lookup failed during auction fan-out",
			zap.String("auctionId", auction.Id.String()), zap.Error(err))

		return
	}

	meta := &entity.NotificationMeta{
		AuctionId:         auction.Id.String(),
		ServiceTitle:      auction.ServiceTitle,
		ActionUrl:         "/auctions/" + auction.Id.String(),
		RelatedEntityType: "auction",
		RelatedEntityId:   auction.Id.String(),
	}
	body := "A new auction has been posted: " + auction.ServiceTitle
	for _, provider := range providers {
		err := s.notifier.Notify(ctx, provider.Id.String(), notificationKindAuction, "New Auction Available", body, meta)
		if err != nil {
			s.log.Error("auction notification failed",
				zap.String("auctionId", auction.Id.String()),
				zap.String("providerId", provider.Id.String()), zap.Error(err))
		}
	}

	s.log.Info("sent auction notifications",
		zap.String("auctionId", auction.Id.String()), zap.Int("providers", len(providers)))
}

func (s *AuctionService) GetAuctionById(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error) {
	auction, err := s.auctionRepo.ViewAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	return mapAuction(auction), nil
}

// PublishAuction sets the status to published unconditionally, so
// re-publishing an already published auction is not an error.
func (s *AuctionService) PublishAuction(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error) {
	auction, err := s.auctionRepo.ViewAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	if err := s.auctionRepo.UpdateAuctionStatusById(ctx, auctionId, common.AuctionPublished); err != nil {
		return nil, err
	}
	auction.Status = common.AuctionPublished

	return mapAuction(auction), nil
}

func (s *AuctionService) ListAuctions(ctx context.Context, consumerId string, status string) (*entity.AuctionListOutput, error) {
	auctions, err := s.auctionRepo.ListAuctions(ctx, consumerId, status)
	if err != nil {
		return nil, err
	}

	return &entity.AuctionListOutput{Items: mapAuctions(auctions), Total: len(auctions)}, nil
}

func (s *AuctionService) SearchAuctions(ctx context.Context, f *entity.AuctionSearchFilter, page int, limit int) (*entity.AuctionSearchOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	pg := entity.NewPaginationInput(limit, (page-1)*limit)
	auctions, total, err := s.auctionRepo.SearchAuctions(ctx, f, pg)
	if err != nil {
		return nil, err
	}

	out := &entity.AuctionSearchOutput{
		Items:      mapAuctions(auctions),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}

	if total == 0 {
		debug, err := s.buildSearchDebug(ctx, f)
		if err != nil {
			return nil, err
		}
		out.Debug = debug
	}

	return out, nil
}

// buildSearchDebug counts matches for each filter taken alone, to show
// which single criterion most likely produced the empty result.
func (s *AuctionService) buildSearchDebug(ctx context.Context, f *entity.AuctionSearchFilter) (*entity.SearchDebug, error) {
	debug := &entity.SearchDebug{Message: "No auctions found matching all criteria"}

	if f.Category != "" {
		count, err := s.auctionRepo.CountAuctions(ctx, &entity.AuctionSearchFilter{Category: f.Category})
		if err != nil {
			return nil, err
		}
		fc := &entity.FilterCount{Value: f.Category, Count: count}
		if count == 0 {
			fc.Message = "No auctions found for this category"
		}
		debug.FilterBreakdown.Category = fc
	}
	if f.Status != "" {
		count, err := s.auctionRepo.CountAuctions(ctx, &entity.AuctionSearchFilter{Status: f.Status})
		if err != nil {
			return nil, err
		}
		fc := &entity.FilterCount{Value: f.Status, Count: count}
		if count == 0 {
			fc.Message = fmt.Sprintf("No auctions found with status '%s'", f.Status)
		}
		debug.FilterBreakdown.Status = fc
	}
	if f.Location != "" {
		count, err := s.auctionRepo.CountAuctions(ctx, &entity.AuctionSearchFilter{Location: f.Location})
		if err != nil {
			return nil, err
		}
		fc := &entity.FilterCount{Value: f.Location, Count: count}
		if count == 0 {
			fc.Message = fmt.Sprintf("No auctions found in location containing '%s'", f.Location)
		}
		debug.FilterBreakdown.Location = fc
	}

	return debug, nil
}

// SelectBid converts a winning bid into a booking. The selection mark
// is guarded at the store (write-once on selected_bid_id); on booking
// failure the marks are reverted sequentially and the downstream error
// is surfaced wrapped in ErrBookingFailed.
func (s *AuctionService) SelectBid(ctx context.Context, auctionId string, bidId string, reason string) (*entity.SelectionOutput, error) {
	auction, err := s.auctionRepo.ViewAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}
	if bid.AuctionId != auction.Id {
		return nil, ErrBidNotFound
	}

	// Fast path; the conditional update below re-verifies under
	// concurrency.
	if auction.SelectedBidId != nil {
		return nil, ErrBidAlreadySelected
	}

	if err := s.auctionRepo.MarkSelected(ctx, auctionId, bidId, reason); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrBidAlreadySelected
		}

		return nil, err
	}

	if err := s.bidRepo.MarkBidSelected(ctx, bidId); err != nil {
		s.compensateSelection(ctx, auctionId, "")

		return nil, err
	}

	booking, err := s.bookings.CreateFromAuction(ctx, auctionId, bidId)
	if err != nil {
		s.compensateSelection(ctx, auctionId, bidId)

		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}

	selectedBid := bid.Id
	now := time.Now().Format(time.RFC3339)
	auction.SelectedBidId = &selectedBid
	auction.SelectionReason = reason
	auction.SelectedAt = &now
	auction.Status = common.AuctionSelected

	return &entity.SelectionOutput{Auction: mapAuction(auction), Booking: mapBooking(booking)}, nil
}

// compensateSelection reverts the optimistic selection marks. It is
// best-effort sequential, not a two-phase commit: a crash in here can
// leave the auction selected with no booking, which is logged loudly
// rather than hidden.
func (s *AuctionService) compensateSelection(ctx context.Context, auctionId string, bidId string) {
	if err := s.auctionRepo.ClearSelection(ctx, auctionId); err != nil {
		s.log.Error("selection rollback failed for auction",
			zap.String("auctionId", auctionId), zap.Error(err))
	}
	if bidId != "" {
		if err := s.bidRepo.RevertBidSelection(ctx, bidId); err != nil {
			s.log.Error("selection rollback failed for bid",
				zap.String("bidId", bidId), zap.Error(err))
		}
	}
}
