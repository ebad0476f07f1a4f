package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/pagination"
	"github.com/cloo-solutions/folio/internal/service"
)

//go:embed sqlite/*.sql
var sqliteMigrations embed.FS

// Fixed-width UTC timestamps keep lexical order equal to time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// QueryLogStore stores answered queries in a local SQLite file. It is the
// analytics sink for single-binary deployments without Postgres.
type QueryLogStore struct {
	db *sql.DB
}

// OpenQueryLogStore opens (or creates) the database at path and applies the
// embedded schema. Pass ":memory:" for an in-memory database.
func OpenQueryLogStore(path string) (*QueryLogStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create analytics directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping analytics database: %w", err)
	}

	// One writer; an in-memory database also lives on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set journal mode: %w", err)
		}
	}

	s := &QueryLogStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate analytics database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *QueryLogStore) Close() error {
	return s.db.Close()
}

func (s *QueryLogStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	entries, err := sqliteMigrations.ReadDir("sqlite")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			return fmt.Errorf("parse migration version from %q: %w", entry.Name(), err)
		}

		var applied int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if applied > 0 {
			continue
		}

		content, err := sqliteMigrations.ReadFile("sqlite/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}
	return nil
}

// RecordQuery implements service.AnalyticsSink.
func (s *QueryLogStore) RecordQuery(ctx context.Context, entry service.AnalyticsEntry) error {
	modalsJSON, err := marshalModals(entry.Modals)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO query_logs (id, query, lens, source, provider, model, duration_ms, history_length, modals, modal_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Query,
		lensOrNone(entry.Lens),
		string(entry.Source),
		nullableString(entry.Provider),
		nullableString(entry.Model),
		entry.DurationMs,
		entry.HistoryLength,
		string(modalsJSON),
		len(entry.Modals),
		entry.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert query log: %w", err)
	}
	return nil
}

// ListQueries returns logged queries, newest first.
func (s *QueryLogStore) ListQueries(ctx context.Context, cursor *pagination.Cursor, limit int) (*pagination.Page[service.AnalyticsEntry], error) {
	limit = pagination.ClampLimit(limit)

	var rows *sql.Rows
	var err error
	if cursor != nil {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, query, lens, source, provider, model, duration_ms, history_length, modals, created_at
			FROM query_logs
			WHERE (created_at, id) < (?, ?)
			ORDER BY created_at DESC, id DESC
			LIMIT ?`,
			cursor.CreatedAt.UTC().Format(sqliteTimeLayout), cursor.LastID, limit+1,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, query, lens, source, provider, model, duration_ms, history_length, modals, created_at
			FROM query_logs
			ORDER BY created_at DESC, id DESC
			LIMIT ?`,
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
			e                   service.AnalyticsEntry
			lens, source        string
			provider, model     sql.NullString
			modalsJSON, created string
		)
		if err := rows.Scan(&e.ID, &e.Query, &lens, &source, &provider, &model,
			&e.DurationMs, &e.HistoryLength, &modalsJSON, &created); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		e.Lens = domain.Lens(lens)
		e.Source = service.Source(source)
		e.Provider = provider.String
		e.Model = model.String
		if err := json.Unmarshal([]byte(modalsJSON), &e.Modals); err != nil {
			return nil, fmt.Errorf("decode query log modals: %w", err)
		}
		if e.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
			return nil, fmt.Errorf("parse query log time: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}

	return pagination.NewPage(entries, limit, entryCursor), nil
}

// AppliedMigrations returns applied schema versions in ascending order.
func (s *QueryLogStore) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
