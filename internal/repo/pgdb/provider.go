package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo/repo_errors"
	"marketplace-matching-api/pkg/postgres"

	"github.com/google/uuid"
)

// ProviderRepo is the read-only slice of the provider directory this
// core consumes.
type ProviderRepo struct {
	*postgres.Postgres
}

func NewProviderRepo(pgdb *postgres.Postgres) *ProviderRepo {
	return &ProviderRepo{pgdb}
}

func (r *ProviderRepo) GetProviderByUserId(ctx context.Context, userId string) (*entity.ProviderProfile, error) {
	uuidForm, err := uuid.Parse(userId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getProviderSql, args, _ := r.SqlBuilder.
		Select("id", "user_id", "category_id", "coalesce(display_name, '')").
		From("providers").
		Where("user_id = ?", uuidForm).
		ToSql()

	var (
		profile    entity.ProviderProfile
		categoryId uuid.NullUUID
	)
	err = r.Database.QueryRowContext(ctx, getProviderSql, args...).
		Scan(&profile.Id, &profile.UserId, &categoryId, &profile.DisplayName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	profile.CategoryId = nullUUIDPtr(categoryId)

	return &profile, nil
}

func (r *ProviderRepo) FindProvidersByCategory(ctx context.Context, categoryId string, limit int) ([]entity.ProviderProfile, error) {
	findSql, args, _ := r.SqlBuilder.
		Select("id", "user_id", "category_id", "coalesce(display_name, '')").
		From("providers").
		Where("category_id = ?", categoryId).
		Limit(uint64(limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, findSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]entity.ProviderProfile, 0)
	for rows.Next() {
		var (
			profile  entity.ProviderProfile
			category uuid.NullUUID
		)
		if err := rows.Scan(&profile.Id, &profile.UserId, &category, &profile.DisplayName); err != nil {
			return profiles, err
		}
		profile.CategoryId = nullUUIDPtr(category)
		profiles = append(profiles, profile)
	}
	if err = rows.Err(); err != nil {
		return profiles, err
	}

	return profiles, nil
}
