package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type historyCache struct {
	db *sql.DB
}

func (h *historyCache) Save(ctx context.Context, userID int64, payload []byte) error {
	query, args := builder().Insert(tableHistoryCache).
		Columns("user_id", "payload", "fetched_at").
		Values(userID, string(payload), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := h.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save history cache: %w", err)
	}
	return nil
}

func (h *historyCache) Load(ctx context.Context, userID int64) ([]byte, time.Time, error) {
	query, args := builder().Select("payload", "fetched_at").
		From(entsql.Table(tableHistoryCache)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var (
		payload string
		fetched int64
	)
	err := h.db.QueryRowContext(ctx, query, args...).Scan(&payload, &fetched)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load history cache: %w", err)
	}
	return []byte(payload), time.UnixMilli(fetched), nil
}
