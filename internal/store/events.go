package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on top of the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	cols := append([]string{"sequence", "created_at"}, columns...)
	vals := append([]any{seqNum, time.Now().UnixMilli()}, values...)
	query, args := builder().Insert(table).Columns(cols...).Values(vals...).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	insights := data.KeyInsights
	if insights == nil {
		insights = []string{}
	}
	raw, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("encode key insights: %w", err)
	}

	err = r.insert(ctx, tableSessionEvents,
		[]string{"session_id", "user_id", "age_group", "action", "risk", "confidence_level", "key_insights", "answered"},
		[]any{data.SessionID, data.UserID, data.AgeGroup, data.Action, data.Risk, data.ConfidenceLevel, string(raw), data.Answered},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendResponseEvent(ctx context.Context, data ResponseEventData) error {
	err := r.insert(ctx, tableResponseEvents,
		[]string{"session_id", "source", "task", "question_id", "domain", "difficulty",
			"correct", "response_time_ms", "mistake_type", "confidence", "accuracy", "mistakes"},
		[]any{data.SessionID, data.Source, data.Task, data.QuestionID, data.Domain, data.Difficulty,
			data.Correct, data.ResponseTimeMs, data.MistakeType, data.Confidence, data.Accuracy, data.Mistakes},
	)
	if err != nil {
		return fmt.Errorf("save response event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, tableLLMEvents,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms",
			"success", "error_message", "request_body", "response_body"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs,
			data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// selectEvents builds a newest-first query over table honouring opts.
func selectEvents(table string, opts QueryOpts, columns ...string) (string, []any) {
	cols := append([]string{"id", "sequence", "created_at"}, columns...)
	sel := builder().Select(cols...).From(entsql.Table(table))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if opts.Source != "" && table == tableResponseEvents {
		sel.Where(entsql.EQ("source", opts.Source))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel.Query()
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	query, args := selectEvents(tableSessionEvents, opts,
		"session_id", "user_id", "age_group", "action", "risk", "confidence_level", "key_insights", "answered")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var (
			e        SessionEvent
			created  int64
			insights string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &created, &e.SessionID, &e.UserID, &e.AgeGroup,
			&e.Action, &e.Risk, &e.ConfidenceLevel, &insights, &e.Answered); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		e.Timestamp = time.UnixMilli(created)
		if err := json.Unmarshal([]byte(insights), &e.KeyInsights); err != nil {
			return nil, fmt.Errorf("decode key insights: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) QueryResponseEvents(ctx context.Context, opts QueryOpts) ([]ResponseEvent, error) {
	query, args := selectEvents(tableResponseEvents, opts,
		"session_id", "source", "task", "question_id", "domain", "difficulty",
		"correct", "response_time_ms", "mistake_type", "confidence", "accuracy", "mistakes")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query response events: %w", err)
	}
	defer rows.Close()

	var out []ResponseEvent
	for rows.Next() {
		var (
			e       ResponseEvent
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &created, &e.SessionID, &e.Source, &e.Task,
			&e.QuestionID, &e.Domain, &e.Difficulty, &e.Correct, &e.ResponseTimeMs,
			&e.MistakeType, &e.Confidence, &e.Accuracy, &e.Mistakes); err != nil {
			return nil, fmt.Errorf("scan response event: %w", err)
		}
		e.Timestamp = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

var llmColumns = []string{"provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body"}

func scanLLMEvent(rows *sql.Rows) (LLMEvent, error) {
	var (
		e       LLMEvent
		created int64
	)
	err := rows.Scan(&e.ID, &e.Sequence, &created, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
		&e.RequestBody, &e.ResponseBody)
	e.Timestamp = time.UnixMilli(created)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	query, args := selectEvents(tableLLMEvents, opts, llmColumns...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	cols := append([]string{"id", "sequence", "created_at"}, llmColumns...)
	query, args := builder().Select(cols...).
		From(entsql.Table(tableLLMEvents)).
		Where(entsql.EQ("id", id)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanLLMEvent(rows)
	if err != nil {
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	query, args := builder().Select(
		"purpose",
		entsql.Count("*"),
		"COALESCE(SUM(input_tokens), 0)",
		"COALESCE(SUM(output_tokens), 0)",
		"CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)",
	).
		From(entsql.Table(tableLLMEvents)).
		GroupBy("purpose").
		OrderBy("purpose").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query, args := builder().Select(
		"provider",
		"model",
		entsql.Count("*"),
		"COALESCE(SUM(input_tokens), 0)",
		"COALESCE(SUM(output_tokens), 0)",
	).
		From(entsql.Table(tableLLMEvents)).
		GroupBy("provider", "model").
		OrderBy("provider", "model").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM model usage: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Provider, &u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan LLM model usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
