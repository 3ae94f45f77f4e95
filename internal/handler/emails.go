package handler

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eindr/labeld/internal/cache"
	"github.com/eindr/labeld/internal/store"
)

// EmailResponse is the API representation of a captured email address.
type EmailResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toEmailResponse(e store.Email) EmailResponse {
	return EmailResponse{
		ID:        e.ID,
		Email:     e.Email,
		CreatedAt: e.CreatedAt,
	}
}

// submitEmailRequest is the request body for the public email capture endpoint.
type submitEmailRequest struct {
	Email string `json:"email"`
}

// SubmitEmail handles POST /submit-email, the public email capture endpoint.
// Resubmitting a known address succeeds without creating a duplicate.
func (h *Handler) SubmitEmail(w http.ResponseWriter, r *http.Request) {
	var req submitEmailRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		WriteValidationError(w, map[string]string{"email": "Email is required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		WriteValidationError(w, map[string]string{"email": "Not a valid email address"})
		return
	}

	email, err := h.queries.CreateEmail(r.Context(), store.CreateEmailParams{
		ID:        uuid.NewString(),
		Email:     req.Email,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			existing, err := h.queries.GetEmailByAddress(r.Context(), req.Email)
			if err != nil {
				WriteInternalError(w, "Failed to store email")
				return
			}
			WriteSuccess(w, toEmailResponse(existing), nil)
			return
		}
		slog.Error("failed to store email", "error", err)
		WriteInternalError(w, "Failed to store email")
		return
	}

	slog.Info("email captured", "id", email.ID)
	WriteCreated(w, toEmailResponse(email))
}

// ListEmails handles GET /api/emails (admin only).
func (h *Handler) ListEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := h.queries.ListEmails(r.Context())
	if err != nil {
		slog.Error("failed to list emails", "error", err)
		WriteInternalError(w, "Failed to list emails")
		return
	}

	resp := make([]EmailResponse, 0, len(emails))
	for _, e := range emails {
		resp = append(resp, toEmailResponse(e))
	}
	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}

// StatsResponse summarizes catalog contents. Cache is present only when
// the backing cache tracks counters.
type StatsResponse struct {
	Languages    int64        `json:"languages"`
	Translations int64        `json:"translations"`
	Emails       int64        `json:"emails"`
	Cache        *cache.Stats `json:"cache,omitempty"`
}

// Stats handles GET /api/stats (admin only).
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	languages, err := h.queries.CountLanguages(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to compute stats")
		return
	}
	translations, err := h.queries.CountTranslations(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to compute stats")
		return
	}
	emails, err := h.queries.CountEmails(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to compute stats")
		return
	}

	resp := StatsResponse{
		Languages:    languages,
		Translations: translations,
		Emails:       emails,
	}
	if s, ok := h.labels.Stats(); ok {
		resp.Cache = &s
	}
	WriteSuccess(w, resp, nil)
}
