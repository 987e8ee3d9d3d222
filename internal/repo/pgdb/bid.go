package pgdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"marketplace-matching-api/internal/common"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo/repo_errors"
	"marketplace-matching-api/pkg/postgres"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const bidColumns = "id, auction_id, provider_id, proposed_price, estimated_duration, coalesce(work_plan, ''), " +
	"coalesce(portfolio_items, '[]'), proposed_start_date, proposed_completion_date, " +
	"coalesce(additional_comment, ''), credits_spent, ai_match_score, coalesce(ai_recommendation, ''), " +
	"status, submitted_at, reviewed_at, selected_at, coalesce(withdrawal_reason, ''), created_at, updated_at"

const uniqueViolation = "23505"

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

func scanBid(row rowScanner) (*entity.Bid, error) {
	var (
		bid                    entity.Bid
		duration, matchScore   decimal.NullDecimal
		startDate, completion  sql.NullTime
		reviewedAt, selectedAt sql.NullTime
		submittedAt            time.Time
		createdAt, updatedAt   time.Time
		portfolioBlob          []byte
	)

	err := row.Scan(&bid.Id, &bid.AuctionId, &bid.ProviderId, &bid.ProposedPrice, &duration,
		&bid.WorkPlan, &portfolioBlob, &startDate, &completion, &bid.AdditionalComment,
		&bid.CreditsSpent, &matchScore, &bid.AiRecommendation, &bid.Status, &submittedAt,
		&reviewedAt, &selectedAt, &bid.WithdrawalReason, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(portfolioBlob, &bid.PortfolioItems); err != nil {
		return nil, err
	}

	bid.EstimatedDuration = nullDecimalPtr(duration)
	bid.AiMatchScore = nullDecimalPtr(matchScore)
	bid.ProposedStartDate = nullTimeString(startDate, dateLayout)
	bid.ProposedCompletionDate = nullTimeString(completion, dateLayout)
	bid.ReviewedAt = nullTimeString(reviewedAt, time.RFC3339)
	bid.SelectedAt = nullTimeString(selectedAt, time.RFC3339)
	bid.SubmittedAt = formatTime(submittedAt)
	bid.CreatedAt = formatTime(createdAt)
	bid.UpdatedAt = formatTime(updatedAt)

	return &bid, nil
}

func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	portfolio, err := jsonbValue(input.PortfolioItems, len(input.PortfolioItems) == 0)
	if err != nil {
		return uuid.Nil, err
	}

	createBidSql, args, _ := r.SqlBuilder.
		Insert("auction_bids").
		Columns("auction_id", "provider_id", "proposed_price", "estimated_duration", "work_plan",
			"portfolio_items", "proposed_start_date", "proposed_completion_date",
			"additional_comment", "ai_match_score", "ai_recommendation", "status", "submitted_at").
		Values(input.AuctionId, input.ProviderId, input.ProposedPrice, input.EstimatedDuration,
			nullIfEmpty(input.WorkPlan), portfolio, nullIfEmpty(input.ProposedStartDate),
			nullIfEmpty(input.ProposedCompletionDate), nullIfEmpty(input.AdditionalComment),
			input.AiMatchScore, nullIfEmpty(input.AiRecommendation), input.Status,
			squirrel.Expr("now()")).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createBidSql, args...).Scan(&bidId); err != nil {
		var pqErr *pq.Error
		// The (auction_id, provider_id) unique constraint is the real
		// single-bid-per-provider guarantee.
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, repo_errors.ErrConflict
		}

		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("auction_bids").
		Where("id = ?", uuidForm).
		ToSql()

	return scanBid(r.Database.QueryRowContext(ctx, getBidSql, args...))
}

func (r *BidRepo) GetBidByAuctionAndProvider(ctx context.Context, auctionId string, providerId string) (*entity.Bid, error) {
	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("auction_bids").
		Where("auction_id = ?", auctionId).
		Where("provider_id = ?", providerId).
		ToSql()

	return scanBid(r.Database.QueryRowContext(ctx, getBidSql, args...))
}

func (r *BidRepo) ListBidsByAuction(ctx context.Context, auctionId string) ([]entity.Bid, int, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return nil, 0, repo_errors.ErrNotFound
	}

	listSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("auction_bids").
		Where("auction_id = ?", uuidForm).
		OrderBy("created_at DESC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, 0, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, 0, err
	}

	return bids, len(bids), nil
}

// FindBids filters by provider (matching either the provider profile id
// or its owning user id) and by an already-normalized status set.
func (r *BidRepo) FindBids(ctx context.Context, providerId string, statuses []string, pg *entity.PaginationInput) ([]entity.Bid, int, error) {
	conds := squirrel.And{}
	if providerId != "" {
		conds = append(conds, squirrel.Or{
			squirrel.Expr("auction_bids.provider_id = ?", providerId),
			squirrel.Expr("auction_bids.provider_id IN (SELECT id FROM providers WHERE user_id = ?)", providerId),
		})
	}
	if len(statuses) > 0 {
		conds = append(conds, squirrel.Eq{"status": statuses})
	}

	countSql, countArgs, _ := r.SqlBuilder.
		Select("count(*)").
		From("auction_bids").
		Where(conds).
		ToSql()

	var total int
	if err := r.Database.QueryRowContext(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	findSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("auction_bids").
		Where(conds).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, findSql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, total, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, total, err
	}

	return bids, total, nil
}

func (r *BidRepo) UpdateBidStatusById(ctx context.Context, id string, newStatus string, withdrawalReason string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	builder := r.SqlBuilder.
		Update("auction_bids").
		Set("status", newStatus).
		Set("reviewed_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm)

	if newStatus == common.BidRejected && withdrawalReason != "" {
		builder = builder.Set("withdrawal_reason", withdrawalReason)
	}

	updateSql, args, _ := builder.ToSql()

	result, err := r.Database.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *BidRepo) MarkBidSelected(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	markSql, args, _ := r.SqlBuilder.
		Update("auction_bids").
		Set("status", common.BidSelected).
		Set("selected_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, markSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *BidRepo) RevertBidSelection(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	revertSql, args, _ := r.SqlBuilder.
		Update("auction_bids").
		Set("status", common.BidUnderReview).
		Set("selected_at", nil).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, revertSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}
