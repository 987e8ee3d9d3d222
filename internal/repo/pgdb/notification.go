package pgdb

import (
	"context"
	"encoding/json"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/pkg/postgres"
)

// NotificationRepo hands outbound messages to the notifications table,
// where the delivery worker picks them up. Callers treat dispatch as
// best-effort; an insert failure is theirs to log and swallow.
type NotificationRepo struct {
	*postgres.Postgres
}

func NewNotificationRepo(pgdb *postgres.Postgres) *NotificationRepo {
	return &NotificationRepo{pgdb}
}

func (r *NotificationRepo) Notify(ctx context.Context, userId string, kind string, title string, body string, meta *entity.NotificationMeta) error {
	var metadata interface{}
	if meta != nil {
		blob, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		metadata = blob
	}

	notifySql, args, _ := r.SqlBuilder.
		Insert("notifications").
		Columns("user_id", "kind", "title", "body", "metadata").
		Values(userId, kind, title, body, metadata).
		ToSql()

	_, err := r.Database.ExecContext(ctx, notifySql, args...)

	return err
}
