package service

import (
	"context"
	"marketplace-matching-api/internal/common"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo"
	"marketplace-matching-api/internal/repo/repo_errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeAuctionRepo struct {
	auctions map[string]*entity.Auction

	markSelectedErr   error
	clearSelectionErr error
}

func newFakeAuctionRepo() *fakeAuctionRepo {
	return &fakeAuctionRepo{auctions: make(map[string]*entity.Auction)}
}

func (r *fakeAuctionRepo) CreateAuction(_ context.Context, input *entity.CreateAuctionInput) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now().Format(time.RFC3339)
	auction := &entity.Auction{
		Id:                  id,
		AuctionNumber:       input.AuctionNumber,
		ConsumerId:          uuid.MustParse(input.ConsumerId),
		ServiceTitle:        input.ServiceTitle,
		ServiceDescription:  input.ServiceDescription,
		ServiceRequirements: input.ServiceRequirements,
		ServiceLocation:     input.ServiceLocation,
		PreferredTime:       input.PreferredTime,
		BudgetMin:           input.BudgetMin,
		BudgetMax:           input.BudgetMax,
		AiFairPrice:         input.AiFairPrice,
		Photos:              input.Photos,
		Documents:           input.Documents,
		AutoSelectEnabled:   input.AutoSelectEnabled,
		MaxBidsToReceive:    input.MaxBidsToReceive,
		Status:              input.Status,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if input.ServiceCategoryId != "" {
		categoryId := uuid.MustParse(input.ServiceCategoryId)
		auction.ServiceCategoryId = &categoryId
	}
	if input.PreferredDate != "" {
		d := input.PreferredDate
		auction.PreferredDate = &d
	}
	if input.Deadline != "" {
		d := input.Deadline
		auction.Deadline = &d
	}
	r.auctions[id.String()] = auction

	return id, nil
}

func (r *fakeAuctionRepo) GetAuctionById(_ context.Context, id string) (*entity.Auction, error) {
	auction, ok := r.auctions[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *auction

	return &copied, nil
}

func (r *fakeAuctionRepo) ViewAuctionById(ctx context.Context, id string) (*entity.Auction, error) {
	auction, ok := r.auctions[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	auction.TotalViews++
	copied := *auction

	return &copied, nil
}

func (r *fakeAuctionRepo) UpdateAuctionStatusById(_ context.Context, id string, newStatus string) error {
	auction, ok := r.auctions[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	auction.Status = newStatus

	return nil
}

func (r *fakeAuctionRepo) ListAuctions(_ context.Context, consumerId string, status string) ([]entity.Auction, error) {
	auctions := make([]entity.Auction, 0)
	for _, auction := range r.auctions {
		if consumerId != "" && auction.ConsumerId.String() != consumerId {
			continue
		}
		if status != "" && auction.Status != status {
			continue
		}
		auctions = append(auctions, *auction)
	}
	sort.Slice(auctions, func(i, j int) bool { return auctions[i].CreatedAt > auctions[j].CreatedAt })

	return auctions, nil
}

func (r *fakeAuctionRepo) matches(auction *entity.Auction, f *entity.AuctionSearchFilter) bool {
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(auction.ServiceTitle), kw) &&
			!strings.Contains(strings.ToLower(auction.ServiceDescription), kw) {
			return false
		}
	}
	if f.Category != "" {
		if auction.ServiceCategoryId == nil || auction.ServiceCategoryId.String() != f.Category {
			return false
		}
	}
	if f.Status != "" {
		if f.Status == common.AuctionPublished {
			if auction.Status != common.AuctionPublished && auction.Status != common.AuctionBidding {
				return false
			}
		} else if auction.Status != f.Status {
			return false
		}
	}
	if f.Location != "" {
		if !strings.Contains(strings.ToLower(auction.ServiceLocation), strings.ToLower(f.Location)) {
			return false
		}
	}

	return true
}

func (r *fakeAuctionRepo) SearchAuctions(_ context.Context, f *entity.AuctionSearchFilter, pg *entity.PaginationInput) ([]entity.Auction, int, error) {
	matched := make([]entity.Auction, 0)
	for _, auction := range r.auctions {
		if r.matches(auction, f) {
			matched = append(matched, *auction)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt > matched[j].CreatedAt })

	total := len(matched)
	if pg.Offset >= total {
		return []entity.Auction{}, total, nil
	}
	end := pg.Offset + pg.Limit
	if end > total {
		end = total
	}

	return matched[pg.Offset:end], total, nil
}

func (r *fakeAuctionRepo) CountAuctions(_ context.Context, f *entity.AuctionSearchFilter) (int, error) {
	total := 0
	for _, auction := range r.auctions {
		if f.Category != "" {
			if auction.ServiceCategoryId == nil || auction.ServiceCategoryId.String() != f.Category {
				continue
			}
		}
		if f.Status != "" && auction.Status != f.Status {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(auction.ServiceLocation), strings.ToLower(f.Location)) {
			continue
		}
		total++
	}

	return total, nil
}

func (r *fakeAuctionRepo) RegisterBid(_ context.Context, auctionId string, newStatus string) error {
	auction, ok := r.auctions[auctionId]
	if !ok {
		return repo_errors.ErrNotFound
	}
	auction.TotalBids++
	auction.Status = newStatus

	return nil
}

func (r *fakeAuctionRepo) MarkSelected(_ context.Context, auctionId string, bidId string, reason string) error {
	if r.markSelectedErr != nil {
		return r.markSelectedErr
	}
	auction, ok := r.auctions[auctionId]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if auction.SelectedBidId != nil {
		return repo_errors.ErrConflict
	}
	selected := uuid.MustParse(bidId)
	now := time.Now().Format(time.RFC3339)
	auction.SelectedBidId = &selected
	auction.SelectionReason = reason
	auction.SelectedAt = &now
	auction.Status = common.AuctionSelected

	return nil
}

func (r *fakeAuctionRepo) ClearSelection(_ context.Context, auctionId string) error {
	if r.clearSelectionErr != nil {
		return r.clearSelectionErr
	}
	auction, ok := r.auctions[auctionId]
	if !ok {
		return repo_errors.ErrNotFound
	}
	auction.SelectedBidId = nil
	auction.SelectionReason = ""
	auction.SelectedAt = nil
	auction.Status = common.AuctionReviewing

	return nil
}

func (r *fakeAuctionRepo) ExpireOverdue(_ context.Context) (int, error) {
	expired := 0
	now := time.Now().Format(time.RFC3339)
	for _, auction := range r.auctions {
		if auction.Deadline == nil || *auction.Deadline > now {
			continue
		}
		switch auction.Status {
		case common.AuctionDraft, common.AuctionPublished, common.AuctionBidding, common.AuctionReviewing:
			auction.Status = common.AuctionExpired
			auction.ExpiredAt = &now
			expired++
		}
	}

	return expired, nil
}

type fakeBidRepo struct {
	bids map[string]*entity.Bid

	markSelectedErr error
}

func newFakeBidRepo() *fakeBidRepo {
	return &fakeBidRepo{bids: make(map[string]*entity.Bid)}
}

func (r *fakeBidRepo) CreateBid(_ context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	for _, bid := range r.bids {
		if bid.AuctionId.String() == input.AuctionId && bid.ProviderId.String() == input.ProviderId {
			return uuid.Nil, repo_errors.ErrConflict
		}
	}

	id := uuid.New()
	now := time.Now().Format(time.RFC3339)
	bid := &entity.Bid{
		Id:                id,
		AuctionId:         uuid.MustParse(input.AuctionId),
		ProviderId:        uuid.MustParse(input.ProviderId),
		ProposedPrice:     input.ProposedPrice,
		EstimatedDuration: input.EstimatedDuration,
		WorkPlan:          input.WorkPlan,
		PortfolioItems:    input.PortfolioItems,
		AdditionalComment: input.AdditionalComment,
		AiMatchScore:      input.AiMatchScore,
		AiRecommendation:  input.AiRecommendation,
		Status:            input.Status,
		SubmittedAt:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if input.ProposedStartDate != "" {
		d := input.ProposedStartDate
		bid.ProposedStartDate = &d
	}
	if input.ProposedCompletionDate != "" {
		d := input.ProposedCompletionDate
		bid.ProposedCompletionDate = &d
	}
	r.bids[id.String()] = bid

	return id, nil
}

func (r *fakeBidRepo) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	bid, ok := r.bids[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *bid

	return &copied, nil
}

func (r *fakeBidRepo) GetBidByAuctionAndProvider(_ context.Context, auctionId string, providerId string) (*entity.Bid, error) {
	for _, bid := range r.bids {
		if bid.AuctionId.String() == auctionId && bid.ProviderId.String() == providerId {
			copied := *bid

			return &copied, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (r *fakeBidRepo) ListBidsByAuction(_ context.Context, auctionId string) ([]entity.Bid, int, error) {
	bids := make([]entity.Bid, 0)
	for _, bid := range r.bids {
		if bid.AuctionId.String() == auctionId {
			bids = append(bids, *bid)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt > bids[j].CreatedAt })

	return bids, len(bids), nil
}

func (r *fakeBidRepo) FindBids(_ context.Context, providerId string, statuses []string, pg *entity.PaginationInput) ([]entity.Bid, int, error) {
	statusSet := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		statusSet[s] = struct{}{}
	}

	matched := make([]entity.Bid, 0)
	for _, bid := range r.bids {
		if providerId != "" && bid.ProviderId.String() != providerId {
			continue
		}
		if len(statusSet) > 0 {
			if _, ok := statusSet[bid.Status]; !ok {
				continue
			}
		}
		matched = append(matched, *bid)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt > matched[j].CreatedAt })

	total := len(matched)
	if pg.Offset >= total {
		return []entity.Bid{}, total, nil
	}
	end := pg.Offset + pg.Limit
	if end > total {
		end = total
	}

	return matched[pg.Offset:end], total, nil
}

func (r *fakeBidRepo) UpdateBidStatusById(_ context.Context, id string, newStatus string, withdrawalReason string) error {
	bid, ok := r.bids[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	now := time.Now().Format(time.RFC3339)
	bid.Status = newStatus
	bid.ReviewedAt = &now
	if newStatus == common.BidRejected && withdrawalReason != "" {
		bid.WithdrawalReason = withdrawalReason
	}

	return nil
}

func (r *fakeBidRepo) MarkBidSelected(_ context.Context, id string) error {
	if r.markSelectedErr != nil {
		return r.markSelectedErr
	}
	bid, ok := r.bids[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	now := time.Now().Format(time.RFC3339)
	bid.Status = common.BidSelected
	bid.SelectedAt = &now

	return nil
}

func (r *fakeBidRepo) RevertBidSelection(_ context.Context, id string) error {
	bid, ok := r.bids[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	bid.Status = common.BidUnderReview
	bid.SelectedAt = nil

	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.QuotationSession

	markConvertedErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.QuotationSession)}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, input *entity.CreateSessionInput) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now().Format(time.RFC3339)
	session := &entity.QuotationSession{
		Id:                  id,
		UserId:              uuid.MustParse(input.UserId),
		SessionNumber:       input.SessionNumber,
		Status:              input.Status,
		ConversationHistory: make([]entity.ConversationMessage, 0),
		ServiceCategory:     input.ServiceCategory,
		ServiceDescription:  input.ServiceDescription,
		Location:            input.Location,
		PreferredTime:       input.PreferredTime,
		BudgetRangeMin:      input.BudgetRangeMin,
		BudgetRangeMax:      input.BudgetRangeMax,
		SpecialRequirements: input.SpecialRequirements,
		Photos:              input.Photos,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if input.PreferredDate != "" {
		d := input.PreferredDate
		session.PreferredDate = &d
	}
	r.sessions[id.String()] = session

	return id, nil
}

func (r *fakeSessionRepo) GetSessionById(_ context.Context, id string) (*entity.QuotationSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *session

	return &copied, nil
}

func (r *fakeSessionRepo) ListSessionsByUser(_ context.Context, userId string) ([]entity.QuotationSession, int, error) {
	sessions := make([]entity.QuotationSession, 0)
	for _, session := range r.sessions {
		if session.UserId.String() == userId {
			sessions = append(sessions, *session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt > sessions[j].CreatedAt })

	return sessions, len(sessions), nil
}

func (r *fakeSessionRepo) AppendMessages(_ context.Context, id string, messages []entity.ConversationMessage) error {
	session, ok := r.sessions[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	session.ConversationHistory = append(session.ConversationHistory, messages...)

	return nil
}

func (r *fakeSessionRepo) CompleteSession(_ context.Context, id string) error {
	session, ok := r.sessions[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	now := time.Now().Format(time.RFC3339)
	session.Status = common.SessionCompleted
	session.CompletedAt = &now

	return nil
}

func (r *fakeSessionRepo) MarkConverted(_ context.Context, id string, auctionId uuid.UUID) error {
	if r.markConvertedErr != nil {
		return r.markConvertedErr
	}
	session, ok := r.sessions[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if session.ConvertedToAuction {
		return repo_errors.ErrConflict
	}
	now := time.Now().Format(time.RFC3339)
	session.ConvertedToAuction = true
	session.AuctionId = &auctionId
	session.Status = common.SessionCompleted
	session.CompletedAt = &now

	return nil
}

type fakeDiagnosticsRepo struct {
	err error
}

func (r *fakeDiagnosticsRepo) Ping() error { return r.err }

type fakeProviders struct {
	byUser     map[string]*entity.ProviderProfile
	byCategory map[string][]entity.ProviderProfile

	err error
}

func newFakeProviders() *fakeProviders {
	return &fakeProviders{
		byUser:     make(map[string]*entity.ProviderProfile),
		byCategory: make(map[string][]entity.ProviderProfile),
	}
}

func (f *fakeProviders) GetProviderByUserId(_ context.Context, userId string) (*entity.ProviderProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.byUser[userId]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return profile, nil
}

func (f *fakeProviders) FindProvidersByCategory(_ context.Context, categoryId string, limit int) ([]entity.ProviderProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profiles := f.byCategory[categoryId]
	if len(profiles) > limit {
		profiles = profiles[:limit]
	}

	return profiles, nil
}

func (f *fakeProviders) add(userId string, categoryId string) *entity.ProviderProfile {
	profile := &entity.ProviderProfile{
		Id:          uuid.New(),
		UserId:      uuid.MustParse(userId),
		DisplayName: "Provider " + userId[:8],
	}
	if categoryId != "" {
		category := uuid.MustParse(categoryId)
		profile.CategoryId = &category
		f.byCategory[categoryId] = append(f.byCategory[categoryId], *profile)
	}
	f.byUser[userId] = profile

	return profile
}

type sentNotification struct {
	UserId string
	Kind   string
	Title  string
	Body   string
	Meta   *entity.NotificationMeta
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, userId string, kind string, title string, body string, meta *entity.NotificationMeta) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{UserId: userId, Kind: kind, Title: title, Body: body, Meta: meta})

	return nil
}

type fakeBookings struct {
	created []*entity.Booking
	err     error
}

func (f *fakeBookings) CreateFromAuction(_ context.Context, auctionId string, bidId string) (*entity.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	booking := &entity.Booking{
		Id:            uuid.New(),
		BookingNumber: "BKG-test",
		AuctionId:     uuid.MustParse(auctionId),
		BidId:         uuid.MustParse(bidId),
		ConsumerId:    uuid.New(),
		ProviderId:    uuid.New(),
		Price:         decimal.NewFromInt(100),
		Status:        "pending",
		CreatedAt:     time.Now().Format(time.RFC3339),
	}
	f.created = append(f.created, booking)

	return booking, nil
}

type testEnv struct {
	auctionRepo *fakeAuctionRepo
	bidRepo     *fakeBidRepo
	sessionRepo *fakeSessionRepo
	providers   *fakeProviders
	notifier    *fakeNotifier
	bookings    *fakeBookings
	deps        *Deps
}

func newTestEnv() *testEnv {
	env := &testEnv{
		auctionRepo: newFakeAuctionRepo(),
		bidRepo:     newFakeBidRepo(),
		sessionRepo: newFakeSessionRepo(),
		providers:   newFakeProviders(),
		notifier:    &fakeNotifier{},
		bookings:    &fakeBookings{},
	}
	env.deps = &Deps{
		Repos: &repo.Repositories{
			Diagnostics:      &fakeDiagnosticsRepo{},
			Auction:          env.auctionRepo,
			Bid:              env.bidRepo,
			QuotationSession: env.sessionRepo,
		},
		Providers: env.providers,
		Notifier:  env.notifier,
		Bookings:  env.bookings,
		Logger:    zap.NewNop(),
	}

	return env
}
