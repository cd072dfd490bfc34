package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

type QueryLogRepository struct {
	db *sql.DB
}

func NewQueryLogRepository(db *sql.DB) *QueryLogRepository {
	return &QueryLogRepository{db: db}
}

// RecordQuery is idempotent on the entry id: the worker may see the same
// event twice after a reconnect.
func (r *QueryLogRepository) RecordQuery(ctx context.Context, entry domain.QueryLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO query_log (id, conversation_id, language, query, intent, stage, rule_id, score, duration_ms, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO NOTHING
`,
		entry.ID,
		entry.ConversationID,
		string(entry.Language.Normalize()),
		entry.Query,
		entry.Intent,
		string(entry.Stage),
		nullableString(entry.RuleID),
		entry.Score,
		entry.DurationMS,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert query log entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries first.
func (r *QueryLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, conversation_id, language, query, intent, stage, COALESCE(rule_id, ''), score, duration_ms, created_at
FROM query_log
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query log: %w", err)
	}
	defer rows.Close()

	out := make([]domain.QueryLogEntry, 0, limit)
	for rows.Next() {
		var entry domain.QueryLogEntry
		var language, stage string
		if err := rows.Scan(
			&entry.ID,
			&entry.ConversationID,
			&language,
			&entry.Query,
			&entry.Intent,
			&stage,
			&entry.RuleID,
			&entry.Score,
			&entry.DurationMS,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan query log entry: %w", err)
		}
		entry.Language = domain.Language(language).Normalize()
		entry.Stage = domain.MatchStage(stage)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query log: %w", err)
	}
	return out, nil
}
