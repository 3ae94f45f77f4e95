package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// EventResponse is the API representation of an event log entry.
type EventResponse struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// ListEvents handles GET /api/events (admin only). Entries come back
// newest first; ?limit= caps the page size.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultEventLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > maxEventLimit {
			WriteBadRequest(w, "Invalid limit", map[string]string{
				"limit": "must be an integer between 1 and 500",
			})
			return
		}
		limit = n
	}

	events, err := h.queries.ListRecentEvents(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list events", "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}

	resp := make([]EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, EventResponse{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}
