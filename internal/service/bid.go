package service

import (
	"context"
	"errors"
	"marketplace-matching-api/internal/common"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo"
	"marketplace-matching-api/internal/repo/repo_errors"

	"go.uber.org/zap"
)

// Statuses a consumer may move a bid into by hand. Selection goes
// through the auction selection flow only.
var reviewableBidStatuses = map[string]struct{}{
	common.BidUnderReview: {},
	common.BidShortlisted: {},
	common.BidRejected:    {},
}

type BidService struct {
	auctionRepo repo.Auction
	bidRepo     repo.Bid
	providers   ProviderDirectory
	notifier    NotificationDispatcher
	log         *zap.Logger
}

func NewBidService(deps *Deps) *BidService {
	return &BidService{
		auctionRepo: deps.Repos.Auction,
		bidRepo:     deps.Repos.Bid,
		providers:   deps.Providers,
		notifier:    deps.Notifier,
		log:         deps.Logger,
	}
}

func (s *BidService) CreateBid(ctx context.Context, userId string, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	provider, err := s.providers.GetProviderByUserId(ctx, userId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProviderProfileNotFound
		}

		return nil, err
	}

	auction, err := s.auctionRepo.GetAuctionById(ctx, input.AuctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}
	if auction.Status != common.AuctionPublished && auction.Status != common.AuctionBidding {
		return nil, ErrAuctionNotAcceptingBids
	}

	existing, err := s.bidRepo.GetBidByAuctionAndProvider(ctx, input.AuctionId, provider.Id.String())
	if err != nil && !errors.Is(err, repo_errors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrBidAlreadyExists
	}

	input.ProviderId = provider.Id.String()
	input.Status = common.BidSubmitted

	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		// The unique (auction, provider) constraint closes the race the
		// existence check above leaves open.
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrBidAlreadyExists
		}

		return nil, err
	}

	next := common.NextAuctionStatus(auction.Status, common.EventBidSubmitted)
	if err := s.auctionRepo.RegisterBid(ctx, input.AuctionId, next); err != nil {
		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	s.notifyConsumerAboutNewBid(ctx, auction, bid, provider)

	return mapBid(bid), nil
}

func (s *BidService) notifyConsumerAboutNewBid(ctx context.Context, auction *entity.Auction, bid *entity.Bid, provider *entity.ProviderProfile) {
	meta := &entity.NotificationMeta{
		AuctionId:         auction.Id.String(),
		BidId:             bid.Id.String(),
		ProviderId:        provider.Id.String(),
		ProviderUserId:    provider.UserId.String(),
		ServiceTitle:      auction.ServiceTitle,
		ProposedPrice:     bid.ProposedPrice.String(),
		ActionUrl:         "/auctions/" + auction.Id.String() + "/bids",
		RelatedEntityType: "auction_bid",
		RelatedEntityId:   bid.Id.String(),
	}
	if bid.EstimatedDuration != nil {
		meta.EstimatedDuration = bid.EstimatedDuration.String()
	}
	body := provider.DisplayName + " placed a bid of " + bid.ProposedPrice.String() + " on " + auction.ServiceTitle

	err := s.notifier.Notify(ctx, auction.ConsumerId.String(), notificationKindAuction, "New Bid Received", body, meta)
	if err != nil {
		s.log.Error("bid notification failed",
			zap.String("auctionId", auction.Id.String()),
			zap.String("bidId", bid.Id.String()), zap.Error(err))
	}
}

func (s *BidService) GetBidById(ctx context.Context, bidId string) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) ListBidsByAuction(ctx context.Context, auctionId string) (*entity.BidListOutput, error) {
	if _, err := s.auctionRepo.GetAuctionById(ctx, auctionId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	bids, total, err := s.bidRepo.ListBidsByAuction(ctx, auctionId)
	if err != nil {
		return nil, err
	}

	return &entity.BidListOutput{Items: mapBids(bids), Total: total}, nil
}

func (s *BidService) FindBids(ctx context.Context, providerId string, statusFilter string, page int, limit int) (*entity.BidPageOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	statuses := common.NormalizeBidStatusFilter(statusFilter)
	pg := entity.NewPaginationInput(limit, (page-1)*limit)

	bids, total, err := s.bidRepo.FindBids(ctx, providerId, statuses, pg)
	if err != nil {
		return nil, err
	}

	return &entity.BidPageOutput{
		Items:      mapBids(bids),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func (s *BidService) UpdateBidStatus(ctx context.Context, bidId string, newStatus string, reason string) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	if _, ok := reviewableBidStatuses[newStatus]; !ok {
		return nil, ErrBidStatusNotAllowed
	}
	if bid.Status == common.BidSelected {
		return nil, ErrSelectedBidImmutable
	}

	if err := s.bidRepo.UpdateBidStatusById(ctx, bidId, newStatus, reason); err != nil {
		return nil, err
	}

	// Reviewing a bid pulls the auction forward into the reviewing
	// stage unless selection already happened. Rejection alone does not
	// advance the auction.
	if newStatus == common.BidUnderReview || newStatus == common.BidShortlisted {
		auction, err := s.auctionRepo.GetAuctionById(ctx, bid.AuctionId.String())
		if err == nil {
			next := common.NextAuctionStatus(auction.Status, common.EventBidInReview)
			if next != auction.Status {
				if err := s.auctionRepo.UpdateAuctionStatusById(ctx, auction.Id.String(), next); err != nil {
					s.log.Error("auction status advance failed after bid review",
						zap.String("auctionId", auction.Id.String()), zap.Error(err))
				}
			}
		} else {
			s.log.Error("auction lookup failed after bid review",
				zap.String("bidId", bidId), zap.Error(err))
		}
	}

	updated, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	return mapBid(updated), nil
}
