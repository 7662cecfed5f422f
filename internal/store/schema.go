package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableSessionEvents  = "session_events"
	tableResponseEvents = "response_events"
	tableLLMEvents      = "llm_events"
	tableHistoryCache   = "history_cache"
)

var journalTables = []string{
	tableSessionEvents,
	tableResponseEvents,
	tableLLMEvents,
	tableHistoryCache,
}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		created_at INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		user_id INTEGER NOT NULL DEFAULT 0,
		age_group TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		risk TEXT NOT NULL DEFAULT '',
		confidence_level TEXT NOT NULL DEFAULT '',
		key_insights TEXT NOT NULL DEFAULT '[]',
		answered INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS session_events_session ON session_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS response_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		created_at INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		source TEXT NOT NULL,
		task TEXT NOT NULL DEFAULT '',
		question_id TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT '',
		correct INTEGER NOT NULL,
		response_time_ms INTEGER NOT NULL,
		mistake_type TEXT NOT NULL DEFAULT '',
		confidence TEXT NOT NULL DEFAULT '',
		accuracy REAL NOT NULL DEFAULT 0,
		mistakes INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS response_events_session ON response_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		created_at INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS history_cache (
		user_id INTEGER PRIMARY KEY,
		payload TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
