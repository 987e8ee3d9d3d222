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
	"github.com/shopspring/decimal"
)

const auctionColumns = "id, auction_number, consumer_id, service_category_id, service_title, service_description, " +
	"coalesce(service_requirements, ''), service_location, location_latitude, location_longitude, preferred_date, " +
	"coalesce(preferred_time, ''), deadline, budget_min, budget_max, ai_fair_price, coalesce(photos, '[]'), " +
	"coalesce(documents, '[]'), auto_select_enabled, max_bids_to_receive, status, total_views, total_bids, " +
	"selected_bid_id, coalesce(selection_reason, ''), selected_at, created_at, updated_at, expired_at"

type AuctionRepo struct {
	*postgres.Postgres
}

func NewAuctionRepo(pgdb *postgres.Postgres) *AuctionRepo {
	return &AuctionRepo{pgdb}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuction(row rowScanner) (*entity.Auction, error) {
	var (
		auction                  entity.Auction
		categoryId, selectedBid  uuid.NullUUID
		lat, lng, bmin, bmax     decimal.NullDecimal
		fairPrice                decimal.NullDecimal
		preferredDate, deadline  sql.NullTime
		selectedAt, expiredAt    sql.NullTime
		createdAt, updatedAt     time.Time
		photosBlob, documentBlob []byte
		maxBids                  sql.NullInt64
	)

	err := row.Scan(&auction.Id, &auction.AuctionNumber, &auction.ConsumerId, &categoryId,
		&auction.ServiceTitle, &auction.ServiceDescription, &auction.ServiceRequirements,
		&auction.ServiceLocation, &lat, &lng, &preferredDate, &auction.PreferredTime, &deadline,
		&bmin, &bmax, &fairPrice, &photosBlob, &documentBlob, &auction.AutoSelectEnabled,
		&maxBids, &auction.Status, &auction.TotalViews, &auction.TotalBids, &selectedBid,
		&auction.SelectionReason, &selectedAt, &createdAt, &updatedAt, &expiredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(photosBlob, &auction.Photos); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(documentBlob, &auction.Documents); err != nil {
		return nil, err
	}

	auction.ServiceCategoryId = nullUUIDPtr(categoryId)
	auction.LocationLatitude = nullDecimalPtr(lat)
	auction.LocationLongitude = nullDecimalPtr(lng)
	auction.BudgetMin = nullDecimalPtr(bmin)
	auction.BudgetMax = nullDecimalPtr(bmax)
	auction.AiFairPrice = nullDecimalPtr(fairPrice)
	auction.PreferredDate = nullTimeString(preferredDate, dateLayout)
	auction.Deadline = nullTimeString(deadline, time.RFC3339)
	auction.SelectedBidId = nullUUIDPtr(selectedBid)
	auction.SelectedAt = nullTimeString(selectedAt, time.RFC3339)
	auction.ExpiredAt = nullTimeString(expiredAt, time.RFC3339)
	auction.MaxBidsToReceive = nullIntPtr(maxBids)
	auction.CreatedAt = formatTime(createdAt)
	auction.UpdatedAt = formatTime(updatedAt)

	return &auction, nil
}

func (r *AuctionRepo) CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (uuid.UUID, error) {
	photos, err := jsonbValue(input.Photos, len(input.Photos) == 0)
	if err != nil {
		return uuid.Nil, err
	}
	documents, err := jsonbValue(input.Documents, len(input.Documents) == 0)
	if err != nil {
		return uuid.Nil, err
	}

	createAuctionSql, args, _ := r.SqlBuilder.
		Insert("auctions").
		Columns("auction_number", "consumer_id", "service_category_id", "service_title",
			"service_description", "service_requirements", "service_location",
			"location_latitude", "location_longitude", "preferred_date", "preferred_time",
			"deadline", "budget_min", "budget_max", "ai_fair_price", "photos", "documents",
			"auto_select_enabled", "max_bids_to_receive", "status").
		Values(input.AuctionNumber, input.ConsumerId, nullIfEmpty(input.ServiceCategoryId),
			input.ServiceTitle, input.ServiceDescription, nullIfEmpty(input.ServiceRequirements),
			input.ServiceLocation, input.LocationLatitude, input.LocationLongitude,
			nullIfEmpty(input.PreferredDate), nullIfEmpty(input.PreferredTime),
			nullIfEmpty(input.Deadline), input.BudgetMin, input.BudgetMax, input.AiFairPrice,
			photos, documents, input.AutoSelectEnabled, input.MaxBidsToReceive, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var auctionId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createAuctionSql, args...).Scan(&auctionId); err != nil {
		return uuid.Nil, err
	}

	return auctionId, nil
}

func (r *AuctionRepo) GetAuctionById(ctx context.Context, id string) (*entity.Auction, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getAuctionSql, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("auctions").
		Where("id = ?", uuidForm).
		ToSql()

	return scanAuction(r.Database.QueryRowContext(ctx, getAuctionSql, args...))
}

// ViewAuctionById bumps the view counter and returns the updated row in
// a single statement.
func (r *AuctionRepo) ViewAuctionById(ctx context.Context, id string) (*entity.Auction, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	viewAuctionSql, args, _ := r.SqlBuilder.
		Update("auctions").
		Set("total_views", squirrel.Expr("total_views + ?", 1)).
		Where("id = ?", uuidForm).
		Suffix("RETURNING " + auctionColumns).
		ToSql()

	return scanAuction(r.Database.QueryRowContext(ctx, viewAuctionSql, args...))
}

func (r *AuctionRepo) UpdateAuctionStatusById(ctx context.Context, id string, newStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("auctions").
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, updateStatusSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *AuctionRepo) ListAuctions(ctx context.Context, consumerId string, status string) ([]entity.Auction, error) {
	builder := r.SqlBuilder.
		Select(auctionColumns).
		From("auctions")

	if consumerId != "" {
		builder = builder.Where("consumer_id = ?", consumerId)
	}
	if status != "" {
		builder = builder.Where("status = ?", status)
	}

	listSql, args, _ := builder.OrderBy("created_at DESC").ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	auctions := make([]entity.Auction, 0)
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return auctions, err
		}
		auctions = append(auctions, *auction)
	}
	if err = rows.Err(); err != nil {
		return auctions, err
	}

	return auctions, nil
}

func searchConditions(f *entity.AuctionSearchFilter) squirrel.And {
	conds := squirrel.And{}
	if f.Keyword != "" {
		pattern := "%" + f.Keyword + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"service_title": pattern},
			squirrel.ILike{"service_description": pattern},
		})
	}
	if f.Category != "" {
		conds = append(conds, squirrel.Eq{"service_category_id": f.Category})
	}
	if f.Status != "" {
		// Published and bidding are both "open for bidding" from a
		// searcher's perspective.
		if f.Status == common.AuctionPublished {
			conds = append(conds, squirrel.Eq{"status": []string{common.AuctionPublished, common.AuctionBidding}})
		} else {
			conds = append(conds, squirrel.Eq{"status": f.Status})
		}
	}
	if f.Location != "" {
		conds = append(conds, squirrel.ILike{"service_location": "%" + f.Location + "%"})
	}
	if f.BudgetMin != nil {
		conds = append(conds, squirrel.Or{
			squirrel.GtOrEq{"budget_max": *f.BudgetMin},
			squirrel.GtOrEq{"budget_min": *f.BudgetMin},
		})
	}
	if f.BudgetMax != nil {
		conds = append(conds, squirrel.Or{
			squirrel.LtOrEq{"budget_min": *f.BudgetMax},
			squirrel.LtOrEq{"budget_max": *f.BudgetMax},
		})
	}

	return conds
}

func (r *AuctionRepo) SearchAuctions(ctx context.Context, f *entity.AuctionSearchFilter, pg *entity.PaginationInput) ([]entity.Auction, int, error) {
	conds := searchConditions(f)

	countSql, countArgs, _ := r.SqlBuilder.
		Select("count(*)").
		From("auctions").
		Where(conds).
		ToSql()

	var total int
	if err := r.Database.QueryRowContext(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	searchSql, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("auctions").
		Where(conds).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, searchSql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	auctions := make([]entity.Auction, 0)
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return auctions, total, err
		}
		auctions = append(auctions, *auction)
	}
	if err = rows.Err(); err != nil {
		return auctions, total, err
	}

	return auctions, total, nil
}

// CountAuctions counts matches for the diagnostic breakdown. Each
// filter is applied exactly as given, without the published/bidding
// widening the search uses.
func (r *AuctionRepo) CountAuctions(ctx context.Context, f *entity.AuctionSearchFilter) (int, error) {
	builder := r.SqlBuilder.
		Select("count(*)").
		From("auctions")

	if f.Category != "" {
		builder = builder.Where(squirrel.Eq{"service_category_id": f.Category})
	}
	if f.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Location != "" {
		builder = builder.Where(squirrel.ILike{"service_location": "%" + f.Location + "%"})
	}

	countSql, args, _ := builder.ToSql()

	var total int
	if err := r.Database.QueryRowContext(ctx, countSql, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *AuctionRepo) RegisterBid(ctx context.Context, auctionId string, newStatus string) error {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	registerSql, args, _ := r.SqlBuilder.
		Update("auctions").
		Set("total_bids", squirrel.Expr("total_bids + ?", 1)).
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, registerSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

// MarkSelected is the write-once selection guard: the row is updated
// only while selected_bid_id is still null, so under concurrent
// selection attempts exactly one caller wins and the rest get
// ErrConflict.
func (r *AuctionRepo) MarkSelected(ctx context.Context, auctionId string, bidId string, reason string) error {
	auctionUuid, err := uuid.Parse(auctionId)
	if err != nil {
		return repo_errors.ErrNotFound
	}
	bidUuid, err := uuid.Parse(bidId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	markSql, args, _ := r.SqlBuilder.
		Update("auctions").
		Set("selected_bid_id", bidUuid).
		Set("selection_reason", nullIfEmpty(reason)).
		Set("selected_at", squirrel.Expr("now()")).
		Set("status", common.AuctionSelected).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", auctionUuid).
		Where("selected_bid_id IS NULL").
		ToSql()

	result, err := r.Database.ExecContext(ctx, markSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrConflict
	}

	return nil
}

func (r *AuctionRepo) ClearSelection(ctx context.Context, auctionId string) error {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	clearSql, args, _ := r.SqlBuilder.
		Update("auctions").
		Set("selected_bid_id", nil).
		Set("selection_reason", nil).
		Set("selected_at", nil).
		Set("status", common.AuctionReviewing).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, clearSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *AuctionRepo) ExpireOverdue(ctx context.Context) (int, error) {
	expireSql, args, _ := r.SqlBuilder.
		Update("auctions").
		Set("status", common.AuctionExpired).
		Set("expired_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where("deadline IS NOT NULL").
		Where("deadline < now()").
		Where(squirrel.Eq{"status": []string{
			common.AuctionDraft, common.AuctionPublished, common.AuctionBidding, common.AuctionReviewing,
		}}).
		ToSql()

	result, err := r.Database.ExecContext(ctx, expireSql, args...)
	if err != nil {
		return 0, err
	}
	affected, _ := result.RowsAffected()

	return int(affected), nil
}
