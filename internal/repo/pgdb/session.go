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

const sessionColumns = "id, user_id, session_number, status, coalesce(conversation_history, '[]'), " +
	"coalesce(service_category, ''), coalesce(service_description, ''), coalesce(location, ''), " +
	"preferred_date, coalesce(preferred_time, ''), budget_range_min, budget_range_max, " +
	"coalesce(special_requirements, ''), coalesce(photos, '[]'), estimated_price, estimated_duration, " +
	"confidence_score, converted_to_auction, auction_id, created_at, updated_at, completed_at"

type SessionRepo struct {
	*postgres.Postgres
}

func NewSessionRepo(pgdb *postgres.Postgres) *SessionRepo {
	return &SessionRepo{pgdb}
}

func scanSession(row rowScanner) (*entity.QuotationSession, error) {
	var (
		session                  entity.QuotationSession
		bmin, bmax, price, score decimal.NullDecimal
		preferredDate            sql.NullTime
		completedAt              sql.NullTime
		createdAt, updatedAt     time.Time
		historyBlob, photosBlob  []byte
		duration                 sql.NullInt64
		auctionId                uuid.NullUUID
	)

	err := row.Scan(&session.Id, &session.UserId, &session.SessionNumber, &session.Status,
		&historyBlob, &session.ServiceCategory, &session.ServiceDescription, &session.Location,
		&preferredDate, &session.PreferredTime, &bmin, &bmax, &session.SpecialRequirements,
		&photosBlob, &price, &duration, &score, &session.ConvertedToAuction, &auctionId,
		&createdAt, &updatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(historyBlob, &session.ConversationHistory); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(photosBlob, &session.Photos); err != nil {
		return nil, err
	}

	session.BudgetRangeMin = nullDecimalPtr(bmin)
	session.BudgetRangeMax = nullDecimalPtr(bmax)
	session.EstimatedPrice = nullDecimalPtr(price)
	session.ConfidenceScore = nullDecimalPtr(score)
	session.EstimatedDuration = nullIntPtr(duration)
	session.PreferredDate = nullTimeString(preferredDate, dateLayout)
	session.CompletedAt = nullTimeString(completedAt, time.RFC3339)
	session.AuctionId = nullUUIDPtr(auctionId)
	session.CreatedAt = formatTime(createdAt)
	session.UpdatedAt = formatTime(updatedAt)

	return &session, nil
}

func (r *SessionRepo) CreateSession(ctx context.Context, input *entity.CreateSessionInput) (uuid.UUID, error) {
	photos, err := jsonbValue(input.Photos, len(input.Photos) == 0)
	if err != nil {
		return uuid.Nil, err
	}

	createSessionSql, args, _ := r.SqlBuilder.
		Insert("quotation_sessions").
		Columns("user_id", "session_number", "status", "conversation_history", "service_category",
			"service_description", "location", "preferred_date", "preferred_time",
			"budget_range_min", "budget_range_max", "special_requirements", "photos").
		Values(input.UserId, input.SessionNumber, input.Status, "[]",
			nullIfEmpty(input.ServiceCategory), nullIfEmpty(input.ServiceDescription),
			nullIfEmpty(input.Location), nullIfEmpty(input.PreferredDate),
			nullIfEmpty(input.PreferredTime), input.BudgetRangeMin, input.BudgetRangeMax,
			nullIfEmpty(input.SpecialRequirements), photos).
		Suffix("RETURNING id").
		ToSql()

	var sessionId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createSessionSql, args...).Scan(&sessionId); err != nil {
		return uuid.Nil, err
	}

	return sessionId, nil
}

func (r *SessionRepo) GetSessionById(ctx context.Context, id string) (*entity.QuotationSession, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getSessionSql, args, _ := r.SqlBuilder.
		Select(sessionColumns).
		From("quotation_sessions").
		Where("id = ?", uuidForm).
		ToSql()

	return scanSession(r.Database.QueryRowContext(ctx, getSessionSql, args...))
}

func (r *SessionRepo) ListSessionsByUser(ctx context.Context, userId string) ([]entity.QuotationSession, int, error) {
	listSql, args, _ := r.SqlBuilder.
		Select(sessionColumns).
		From("quotation_sessions").
		Where("user_id = ?", userId).
		OrderBy("created_at DESC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions := make([]entity.QuotationSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return sessions, 0, err
		}
		sessions = append(sessions, *session)
	}
	if err = rows.Err(); err != nil {
		return sessions, 0, err
	}

	return sessions, len(sessions), nil
}

func (r *SessionRepo) AppendMessages(ctx context.Context, id string, messages []entity.ConversationMessage) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	blob, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	appendSql, args, _ := r.SqlBuilder.
		Update("quotation_sessions").
		Set("conversation_history", squirrel.Expr("coalesce(conversation_history, '[]'::jsonb) || ?::jsonb", blob)).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, appendSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *SessionRepo) CompleteSession(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	completeSql, args, _ := r.SqlBuilder.
		Update("quotation_sessions").
		Set("status", common.SessionCompleted).
		Set("completed_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	result, err := r.Database.ExecContext(ctx, completeSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

// MarkConverted flips the one-shot conversion flag; a session that was
// already converted yields ErrConflict.
func (r *SessionRepo) MarkConverted(ctx context.Context, id string, auctionId uuid.UUID) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	convertSql, args, _ := r.SqlBuilder.
		Update("quotation_sessions").
		Set("converted_to_auction", true).
		Set("auction_id", auctionId).
		Set("status", common.SessionCompleted).
		Set("completed_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		Where("converted_to_auction = false").
		ToSql()

	result, err := r.Database.ExecContext(ctx, convertSql, args...)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return repo_errors.ErrConflict
	}

	return nil
}
