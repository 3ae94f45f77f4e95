package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/eindr/labeld/internal/model"
	"github.com/eindr/labeld/internal/store"
)

// LanguageResponse is the API representation of a language.
type LanguageResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LangCode  string    `json:"lang_code"`
	Direction string    `json:"direction"`
	IsActive  bool      `json:"is_active"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLanguageResponse(l store.Language) LanguageResponse {
	return LanguageResponse{
		ID:        l.ID,
		Name:      l.Name,
		LangCode:  l.LangCode,
		Direction: l.Direction,
		IsActive:  l.IsActive != 0,
		Icon:      l.Icon,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// languageRequest is the request body for creating or updating a language.
type languageRequest struct {
	Name      string `json:"name"`
	LangCode  string `json:"lang_code"`
	Direction string `json:"direction"`
	IsActive  *bool  `json:"is_active"`
	Icon      string `json:"icon"`
}

// validate checks the request fields and returns per-field errors.
func (req *languageRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)

	req.Name = strings.TrimSpace(req.Name)
	req.LangCode = strings.ToLower(strings.TrimSpace(req.LangCode))

	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if req.LangCode == "" {
		fieldErrors["lang_code"] = "Language code is required"
	} else if _, err := language.Parse(req.LangCode); err != nil {
		fieldErrors["lang_code"] = "Not a valid BCP 47 language code"
	}
	if req.Direction == "" {
		req.Direction = model.DirectionLeft
	} else if !model.ValidDirection(req.Direction) {
		fieldErrors["direction"] = "Direction must be left or right"
	}

	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// ListLanguages handles GET /api/languages.
// Pass ?active=true to list only active languages.
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	var (
		languages []store.Language
		err       error
	)
	if r.URL.Query().Get("active") == "true" {
		languages, err = h.queries.ListActiveLanguages(r.Context())
	} else {
		languages, err = h.queries.ListLanguages(r.Context())
	}
	if err != nil {
		slog.Error("failed to list languages", "error", err)
		WriteInternalError(w, "Failed to list languages")
		return
	}

	resp := make([]LanguageResponse, 0, len(languages))
	for _, l := range languages {
		resp = append(resp, toLanguageResponse(l))
	}
	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}

// GetLanguage handles GET /api/languages/{id}.
func (h *Handler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid language ID", nil)
		return
	}

	lang, err := h.queries.GetLanguage(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Language not found")
		} else {
			slog.Error("failed to get language", "id", id, "error", err)
			WriteInternalError(w, "Failed to retrieve language")
		}
		return
	}

	WriteSuccess(w, toLanguageResponse(lang), nil)
}

// CreateLanguage handles POST /api/languages.
func (h *Handler) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	isActive := int64(1)
	if req.IsActive != nil && !*req.IsActive {
		isActive = 0
	}

	now := time.Now()
	lang, err := h.queries.CreateLanguage(r.Context(), store.CreateLanguageParams{
		Name:      req.Name,
		LangCode:  req.LangCode,
		Direction: req.Direction,
		IsActive:  isActive,
		Icon:      req.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "A language with this name or code already exists")
			return
		}
		slog.Error("failed to create language", "lang_code", req.LangCode, "error", err)
		WriteInternalError(w, "Failed to create language")
		return
	}

	slog.Info("language created", "id", lang.ID, "lang_code", lang.LangCode)
	WriteCreated(w, toLanguageResponse(lang))
}

// UpdateLanguage handles PUT /api/languages/{id}.
func (h *Handler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid language ID", nil)
		return
	}

	existing, err := h.queries.GetLanguage(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Language not found")
		} else {
			WriteInternalError(w, "Failed to retrieve language")
		}
		return
	}

	var req languageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if fieldErrors := req.validate(); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = 0
		if *req.IsActive {
			isActive = 1
		}
	}

	lang, err := h.queries.UpdateLanguage(r.Context(), store.UpdateLanguageParams{
		ID:        id,
		Name:      req.Name,
		LangCode:  req.LangCode,
		Direction: req.Direction,
		IsActive:  isActive,
		Icon:      req.Icon,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "A language with this name or code already exists")
			return
		}
		slog.Error("failed to update language", "id", id, "error", err)
		WriteInternalError(w, "Failed to update language")
		return
	}

	h.labels.InvalidateLanguage(r.Context(), id)
	WriteSuccess(w, toLanguageResponse(lang), nil)
}

// DeactivateLanguage handles DELETE /api/languages/{id}.
// Languages are soft-deleted so their translations remain intact.
func (h *Handler) DeactivateLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid language ID", nil)
		return
	}

	lang, err := h.queries.DeactivateLanguage(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Language not found")
		} else {
			slog.Error("failed to deactivate language", "id", id, "error", err)
			WriteInternalError(w, "Failed to deactivate language")
		}
		return
	}

	h.labels.InvalidateLanguage(r.Context(), id)
	slog.Info("language deactivated", "id", id, "lang_code", lang.LangCode)
	WriteSuccess(w, toLanguageResponse(lang), nil)
}
