package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/pagination"
	"github.com/cloo-solutions/folio/internal/service"
)

// QueryLogRepository stores answered queries in Postgres.
type QueryLogRepository struct {
	pool *pgxpool.Pool
}

func NewQueryLogRepository(pool *pgxpool.Pool) *QueryLogRepository {
	return &QueryLogRepository{pool: pool}
}

// RecordQuery implements service.AnalyticsSink.
func (r *QueryLogRepository) RecordQuery(ctx context.Context, entry service.AnalyticsEntry) error {
	modalsJSON, err := marshalModals(entry.Modals)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO query_logs (id, query, lens, source, provider, model, duration_ms, history_length, modals, modal_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID,
		entry.Query,
		lensOrNone(entry.Lens),
		string(entry.Source),
		nullableString(entry.Provider),
		nullableString(entry.Model),
		entry.DurationMs,
		entry.HistoryLength,
		modalsJSON,
		len(entry.Modals),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}
	return nil
}

// ListQueries returns logged queries, newest first.
func (r *QueryLogRepository) ListQueries(ctx context.Context, cursor *pagination.Cursor, limit int) (*pagination.Page[service.AnalyticsEntry], error) {
	limit = pagination.ClampLimit(limit)

	var rows pgx.Rows
	var err error
	if cursor != nil {
		rows, err = r.pool.Query(ctx,
			`SELECT id, query, lens, source, provider, model, duration_ms, history_length, modals, created_at
			 FROM query_logs
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.CreatedAt, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT id, query, lens, source, provider, model, duration_ms, history_length, modals, created_at
			 FROM query_logs
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}
	defer rows.Close()

	var entries []service.AnalyticsEntry
	for rows.Next() {
		var (
			e               service.AnalyticsEntry
			lens, source    string
			provider, model *string
			modalsJSON      []byte
		)
		if err := rows.Scan(&e.ID, &e.Query, &lens, &source, &provider, &model,
			&e.DurationMs, &e.HistoryLength, &modalsJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		e.Lens = domain.Lens(lens)
		e.Source = service.Source(source)
		e.Provider = derefString(provider)
		e.Model = derefString(model)
		if err := json.Unmarshal(modalsJSON, &e.Modals); err != nil {
			return nil, fmt.Errorf("decode query log modals: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}

	return pagination.NewPage(entries, limit, entryCursor), nil
}

func marshalModals(modals []service.ModalSummary) ([]byte, error) {
	if modals == nil {
		modals = []service.ModalSummary{}
	}
	data, err := json.Marshal(modals)
	if err != nil {
		return nil, fmt.Errorf("encode query log modals: %w", err)
	}
	return data, nil
}

func entryCursor(e service.AnalyticsEntry) pagination.Cursor {
	return pagination.Cursor{LastID: e.ID, CreatedAt: e.CreatedAt}
}

func lensOrNone(l domain.Lens) string {
	if l == "" {
		return string(domain.LensNone)
	}
	return string(l)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
