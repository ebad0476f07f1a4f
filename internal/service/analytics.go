package service

import (
	"context"
	"time"

	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/pagination"
)

// ModalSummary is the compact form of a card stored with a query log.
type ModalSummary struct {
	ID    string           `json:"id"`
	Type  domain.ModalType `json:"type,omitempty"`
	Title string           `json:"title,omitempty"`
}

// AnalyticsEntry captures an answered query and what was returned.
type AnalyticsEntry struct {
	ID            string         `json:"id"`
	Query         string         `json:"query"`
	Lens          domain.Lens    `json:"lens"`
	Source        Source         `json:"source"`
	Provider      string         `json:"provider,omitempty"`
	Model         string         `json:"model,omitempty"`
	DurationMs    int            `json:"duration_ms"`
	HistoryLength int            `json:"history_length"`
	Modals        []ModalSummary `json:"modals"`
	CreatedAt     time.Time      `json:"created_at"`
}

// AnalyticsSink persists query logs.
type AnalyticsSink interface {
	RecordQuery(ctx context.Context, entry AnalyticsEntry) error
}

// QueryLogReader lists stored query logs, newest first.
type QueryLogReader interface {
	ListQueries(ctx context.Context, cursor *pagination.Cursor, limit int) (*pagination.Page[AnalyticsEntry], error)
}

// AnalyticsRecorder accepts entries without blocking the caller. Delivery is
// best effort.
type AnalyticsRecorder interface {
	Record(entry AnalyticsEntry)
}

// NoOpAnalyticsRecorder discards entries. Used when no sink is configured.
type NoOpAnalyticsRecorder struct{}

// Record does nothing.
func (NoOpAnalyticsRecorder) Record(AnalyticsEntry) {}

// SummarizeModals reduces cards to their id, type and title.
func SummarizeModals(modals []domain.Modal) []ModalSummary {
	out := make([]ModalSummary, 0, len(modals))
	for _, m := range modals {
		out = append(out, ModalSummary{ID: m.ID, Type: m.Type, Title: m.Title})
	}
	return out
}
