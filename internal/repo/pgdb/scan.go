package pgdb

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal

	return &v
}

func nullUUIDPtr(u uuid.NullUUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	v := u.UUID

	return &v
}

func nullTimeString(t sql.NullTime, layout string) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(layout)

	return &s
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}

	return s
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)

	return &v
}

// jsonbValue marshals a slice for a jsonb column, writing NULL for an
// empty one.
func jsonbValue(v interface{}, empty bool) (interface{}, error) {
	if empty {
		return nil, nil
	}

	return json.Marshal(v)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
