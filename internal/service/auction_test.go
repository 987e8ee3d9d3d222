package service

import (
	"context"
	"errors"
	"marketplace-matching-api/internal/common"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo/repo_errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func createTestAuction(t *testing.T, env *testEnv, consumerId string, categoryId string) *entity.AuctionOutputModel {
	t.Helper()

	svc := NewAuctionService(env.deps)
	auction, err := svc.CreateAuction(context.Background(), consumerId, &entity.CreateAuctionInput{
		ServiceCategoryId:  categoryId,
		ServiceTitle:       "Bathroom renovation",
		ServiceDescription: "Full renovation of a 6 sqm bathroom",
		ServiceLocation:    "Berlin",
	})
	require.NoError(t, err)

	return auction
}

func TestCreateAuction(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	consumerId := uuid.NewString()
	categoryId := uuid.NewString()
	env.providers.add(uuid.NewString(), categoryId)
	env.providers.add(uuid.NewString(), categoryId)

	auction, err := svc.CreateAuction(context.Background(), consumerId, &entity.CreateAuctionInput{
		ServiceCategoryId:  categoryId,
		ServiceTitle:       "Bathroom renovation",
		ServiceDescription: "Full renovation of a 6 sqm bathroom",
		ServiceLocation:    "Berlin",
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(auction.AuctionNumber, "AUCT-"))
	require.Equal(t, common.AuctionDraft, auction.Status)
	require.Equal(t, consumerId, auction.ConsumerId)
	require.Equal(t, 0, auction.TotalViews)

	require.Len(t, env.notifier.sent, 2)
	require.Equal(t, "New Auction Available", env.notifier.sent[0].Title)
	require.Equal(t, auction.Id, env.notifier.sent[0].Meta.AuctionId)
}

func TestCreateAuctionWithoutCategorySkipsFanOut(t *testing.T) {
	env := newTestEnv()

	auction := createTestAuction(t, env, uuid.NewString(), "")
	require.Equal(t, common.AuctionDraft, auction.Status)
	require.Empty(t, env.notifier.sent)
}

func TestCreateAuctionNotifierFailureDoesNotFail(t *testing.T) {
	env := newTestEnv()
	categoryId := uuid.NewString()
	env.providers.add(uuid.NewString(), categoryId)
	env.notifier.err = errors.New("smtp down")

	auction := createTestAuction(t, env, uuid.NewString(), categoryId)
	require.NotEmpty(t, auction.Id)
}

func TestGetAuctionByIdCountsViews(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	auction := createTestAuction(t, env, uuid.NewString(), "")

	got, err := svc.GetAuctionById(context.Background(), auction.Id)
	require.NoError(t, err)
	require.Equal(t, 1, got.TotalViews)

	got, err = svc.GetAuctionById(context.Background(), auction.Id)
	require.NoError(t, err)
	require.Equal(t, 2, got.TotalViews)
}

func TestGetAuctionByIdNotFound(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)

	_, err := svc.GetAuctionById(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrAuctionNotFound)
}

func TestPublishAuction(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	auction := createTestAuction(t, env, uuid.NewString(), "")

	published, err := svc.PublishAuction(context.Background(), auction.Id)
	require.NoError(t, err)
	require.Equal(t, common.AuctionPublished, published.Status)

	// Re-publishing is idempotent.
	published, err = svc.PublishAuction(context.Background(), auction.Id)
	require.NoError(t, err)
	require.Equal(t, common.AuctionPublished, published.Status)
}

func TestListAuctionsFiltersByConsumerAndStatus(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	consumerId := uuid.NewString()

	mine := createTestAuction(t, env, consumerId, "")
	createTestAuction(t, env, uuid.NewString(), "")

	list, err := svc.ListAuctions(context.Background(), consumerId, "")
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	require.Equal(t, mine.Id, list.Items[0].Id)

	list, err = svc.ListAuctions(context.Background(), consumerId, common.AuctionPublished)
	require.NoError(t, err)
	require.Equal(t, 0, list.Total)
}

func TestSearchAuctionsEmptyResultDebug(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	categoryId := uuid.NewString()
	createTestAuction(t, env, uuid.NewString(), categoryId)

	result, err := svc.SearchAuctions(context.Background(), &entity.AuctionSearchFilter{
		Category: categoryId,
		Status:   common.AuctionPublished,
		Location: "Mars",
	}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 0, result.Total)
	require.NotNil(t, result.Debug)
	require.Equal(t, "No auctions found matching all criteria", result.Debug.Message)

	require.NotNil(t, result.Debug.FilterBreakdown.Category)
	require.Equal(t, 1, result.Debug.FilterBreakdown.Category.Count)
	require.Empty(t, result.Debug.FilterBreakdown.Category.Message)

	require.NotNil(t, result.Debug.FilterBreakdown.Status)
	require.Equal(t, 0, result.Debug.FilterBreakdown.Status.Count)
	require.Equal(t, "No auctions found with status 'published'", result.Debug.FilterBreakdown.Status.Message)

	require.NotNil(t, result.Debug.FilterBreakdown.Location)
	require.Equal(t, "No auctions found in location containing 'Mars'", result.Debug.FilterBreakdown.Location.Message)
}

func TestSearchAuctionsPagination(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	for i := 0; i < 5; i++ {
		createTestAuction(t, env, uuid.NewString(), "")
	}

	result, err := svc.SearchAuctions(context.Background(), &entity.AuctionSearchFilter{}, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 5, result.Total)
	require.Equal(t, 2, result.Page)
	require.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Items, 2)
	require.Nil(t, result.Debug)
}

func setupSelection(t *testing.T, env *testEnv) (auctionId string, bidId string) {
	t.Helper()

	auctionSvc := NewAuctionService(env.deps)
	bidSvc := NewBidService(env.deps)

	auction := createTestAuction(t, env, uuid.NewString(), "")
	_, err := auctionSvc.PublishAuction(context.Background(), auction.Id)
	require.NoError(t, err)

	providerUserId := uuid.NewString()
	env.providers.add(providerUserId, "")
	bid, err := bidSvc.CreateBid(context.Background(), providerUserId, &entity.CreateBidInput{
		AuctionId:     auction.Id,
		ProposedPrice: decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	return auction.Id, bid.Id
}

func TestSelectBid(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	auctionId, bidId := setupSelection(t, env)

	selection, err := svc.SelectBid(context.Background(), auctionId, bidId, "best offer")
	require.NoError(t, err)

	require.Equal(t, common.AuctionSelected, selection.Auction.Status)
	require.Equal(t, bidId, selection.Auction.SelectedBidId)
	require.Equal(t, "best offer", selection.Auction.SelectionReason)
	require.NotNil(t, selection.Auction.SelectedAt)
	require.NotNil(t, selection.Booking)
	require.Equal(t, auctionId, selection.Booking.AuctionId)
	require.Equal(t, bidId, selection.Booking.BidId)

	bid, err := env.bidRepo.GetBidById(context.Background(), bidId)
	require.NoError(t, err)
	require.Equal(t, common.BidSelected, bid.Status)
}

func TestSelectBidSecondAttemptConflicts(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	auctionId, bidId := setupSelection(t, env)

	_, err := svc.SelectBid(context.Background(), auctionId, bidId, "")
	require.NoError(t, err)

	_, err = svc.SelectBid(context.Background(), auctionId, bidId, "")
	require.ErrorIs(t, err, ErrBidAlreadySelected)
}

func TestSelectBidLostRaceConflicts(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	auctionId, bidId := setupSelection(t, env)

	// Another selection wins between the read and the guarded write.
	env.auctionRepo.markSelectedErr = repo_errors.ErrConflict

	_, err := svc.SelectBid(context.Background(), auctionId, bidId, "")
	require.ErrorIs(t, err, ErrBidAlreadySelected)
}

func TestSelectBidFromAnotherAuction(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	auctionId, _ := setupSelection(t, env)
	_, otherBidId := setupSelection(t, env)

	_, err := svc.SelectBid(context.Background(), auctionId, otherBidId, "")
	require.ErrorIs(t, err, ErrBidNotFound)
}

func TestSelectBidBookingFailureCompensates(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	auctionId, bidId := setupSelection(t, env)
	env.bookings.err = errors.New("bookings service unavailable")

	_, err := svc.SelectBid(context.Background(), auctionId, bidId, "")
	require.ErrorIs(t, err, ErrBookingFailed)

	auction, getErr := env.auctionRepo.GetAuctionById(context.Background(), auctionId)
	require.NoError(t, getErr)
	require.Nil(t, auction.SelectedBidId)
	require.Equal(t, common.AuctionReviewing, auction.Status)

	bid, getErr := env.bidRepo.GetBidById(context.Background(), bidId)
	require.NoError(t, getErr)
	require.Equal(t, common.BidUnderReview, bid.Status)
	require.Nil(t, bid.SelectedAt)

	// Selection is possible again after the rollback.
	env.bookings.err = nil
	_, err = svc.SelectBid(context.Background(), auctionId, bidId, "")
	require.NoError(t, err)
}

func TestSelectBidMarkBidFailureCompensatesAuction(t *testing.T) {
	env := newTestEnv()
	svc := NewAuctionService(env.deps)
	auctionId, bidId := setupSelection(t, env)
	env.bidRepo.markSelectedErr = errors.New("write failed")

	_, err := svc.SelectBid(context.Background(), auctionId, bidId, "")
	require.Error(t, err)

	auction, getErr := env.auctionRepo.GetAuctionById(context.Background(), auctionId)
	require.NoError(t, getErr)
	require.Nil(t, auction.SelectedBidId)
}
