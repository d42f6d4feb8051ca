// Package journal records answered assistant questions in Postgres. The
// journal is an audit trail of the assistant itself; childcare data stays
// with the gateway.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"

	"github.com/google/uuid"
)

// Outcome of an answered question.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeFallback Outcome = "fallback"
	OutcomeError    Outcome = "error"
)

type Entry struct {
	ID         string             `json:"id"`
	UserID     string             `json:"userId"`
	Question   string             `json:"question"`
	Intent     models.QueryIntent `json:"intent"`
	Outcome    Outcome            `json:"outcome"`
	DurationMs int64              `json:"durationMs"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Journal stores entries.
type Journal interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, userID string, limit int) ([]Entry, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS assistant_queries (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL,
	question    TEXT NOT NULL,
	entity      TEXT NOT NULL,
	query_type  TEXT NOT NULL,
	timeframe   TEXT,
	outcome     TEXT NOT NULL,
	duration_ms BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

// Postgres writes entries to the assistant_queries table.
type Postgres struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgres(db *sql.DB, log logger.Logger) *Postgres {
	return &Postgres{db: db, logger: log.With(map[string]interface{}{"component": "journal"})}
}

// EnsureSchema creates the table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create assistant_queries: %w", err)
	}
	return nil
}

func (p *Postgres) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	var timeframe sql.NullString
	if e.Intent.Timeframe != "" {
		timeframe = sql.NullString{String: string(e.Intent.Timeframe), Valid: true}
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO assistant_queries (
			id, user_id, question, entity, query_type,
			timeframe, outcome, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID,
		e.UserID,
		e.Question,
		string(e.Intent.Entity),
		string(e.Intent.Type),
		timeframe,
		string(e.Outcome),
		e.DurationMs,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assistant query: %w", err)
	}

	p.logger.Debug("query journaled", map[string]interface{}{
		"id":      e.ID,
		"userId":  e.UserID,
		"outcome": e.Outcome,
	})
	return nil
}

// Recent returns a user's newest entries, newest first.
func (p *Postgres) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, question, entity, query_type, timeframe, outcome, duration_ms, created_at
		FROM assistant_queries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query assistant queries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                     Entry
			entity, queryType, oc string
			timeframe             sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Question, &entity, &queryType, &timeframe, &oc, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assistant query: %w", err)
		}
		e.Intent = models.QueryIntent{
			Entity:    models.Entity(entity),
			Type:      models.QueryType(queryType),
			Timeframe: models.Timeframe(timeframe.String),
		}
		e.Outcome = Outcome(oc)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Nop discards entries. Used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, string, int) ([]Entry, error) { return nil, nil }
