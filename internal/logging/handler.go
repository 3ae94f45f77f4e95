// Package logging forwards warnings and errors to the events table so the
// admin API can surface recent problems without log scraping.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/eindr/labeld/internal/model"
	"github.com/eindr/labeld/internal/store"
)

// categoryKey is the attribute that pins an event's category explicitly.
const categoryKey = "category"

// EventLogHandler wraps another slog.Handler and mirrors every record at
// WARN or above into the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewEventLogHandler wraps inner so that WARN and ERROR records are also
// persisted to the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.inner.Handle(ctx, r)
	if r.Level >= h.level {
		h.capture(r)
	}
	return err
}

func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}

// capture persists one record. Failures are swallowed: the event log must
// never take down the logger, and the record already went to the inner
// handler. A background context is used so cancelled requests still get
// their errors recorded.
func (h *EventLogHandler) capture(r slog.Record) {
	category := ""
	fields := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == categoryKey {
			category = a.Value.String()
		} else {
			fields[a.Key] = a.Value.String()
		}
		return true
	})
	if category == "" {
		category = inferCategory(r.Message)
	}

	metadata := "{}"
	if len(fields) > 0 {
		if b, err := json.Marshal(fields); err == nil {
			metadata = string(b)
		}
	}

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     slogLevelToEventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  metadata,
		CreatedAt: r.Time,
	})
}

func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// inferCategory guesses an event category from the message text when no
// explicit category attribute was logged.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "label"),
		strings.Contains(msg, "translation"),
		strings.Contains(msg, "language"):
		return model.EventCategoryCatalog
	case strings.Contains(msg, "email"):
		return model.EventCategoryEmail
	case strings.Contains(msg, "auth"), strings.Contains(msg, "login"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "cache"):
		return model.EventCategoryCache
	}
	return model.EventCategorySystem
}
