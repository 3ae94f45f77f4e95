package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/eindr/labeld/internal/catalog"
	"github.com/eindr/labeld/internal/store"
)

// ResolvedLabelResponse is one translated label joined with its code and group.
type ResolvedLabelResponse struct {
	ID            int64     `json:"id"`
	LanguageID    int64     `json:"language_id"`
	LabelID       int64     `json:"label_id"`
	LabelCodeName string    `json:"label_code_name"`
	GroupName     string    `json:"group_name"`
	LabelText     string    `json:"label_text"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResolvedLabelResponse(l store.ResolvedLabel) ResolvedLabelResponse {
	return ResolvedLabelResponse{
		ID:            l.ID,
		LanguageID:    l.LanguageID,
		LabelID:       l.LabelID,
		LabelCodeName: l.LabelCodeName,
		GroupName:     l.GroupName,
		LabelText:     l.LabelText,
		UpdatedAt:     l.UpdatedAt,
	}
}

// ListLanguageLabels handles GET /api/languages/{id}/labels.
// Pass ?group_id=N to restrict to one label group. Results are served from
// the label cache.
func (h *Handler) ListLanguageLabels(w http.ResponseWriter, r *http.Request) {
	languageID, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid language ID", nil)
		return
	}

	if _, err := h.queries.GetLanguage(r.Context(), languageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Language not found")
		} else {
			WriteInternalError(w, "Failed to retrieve language")
		}
		return
	}

	var groupID int64
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		groupID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || groupID <= 0 {
			WriteBadRequest(w, "Invalid group_id parameter", nil)
			return
		}
		if _, err := h.queries.GetLabelGroup(r.Context(), groupID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteNotFound(w, "Label group not found")
			} else {
				WriteInternalError(w, "Failed to retrieve label group")
			}
			return
		}
	}

	labels, err := h.labels.Get(r.Context(), languageID, groupID)
	if err != nil {
		slog.Error("failed to list labels", "language_id", languageID, "error", err)
		WriteInternalError(w, "Failed to list labels")
		return
	}

	resp := make([]ResolvedLabelResponse, 0, len(labels))
	for _, l := range labels {
		resp = append(resp, toResolvedLabelResponse(l))
	}
	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}

// ValidateLabel handles POST /api/labels/validate. It reports the validation
// verdict without writing anything.
func (h *Handler) ValidateLabel(w http.ResponseWriter, r *http.Request) {
	var cand catalog.Candidate
	if !decodeJSONBody(w, r, &cand) {
		return
	}

	verdict, err := h.engine.Validate(r.Context(), cand)
	if err != nil {
		slog.Error("label validation failed", "error", err)
		WriteInternalError(w, "Validation failed")
		return
	}

	WriteJSON(w, http.StatusOK, verdict)
}

// InsertLabel handles POST /api/labels: the single-item insertion protocol.
// A rejected candidate returns 422 with the verdict; a successful insertion
// returns 201.
func (h *Handler) InsertLabel(w http.ResponseWriter, r *http.Request) {
	var cand catalog.Candidate
	if !decodeJSONBody(w, r, &cand) {
		return
	}

	result, err := h.engine.InsertWithVerification(r.Context(), cand)
	if err != nil {
		slog.Error("label insertion failed", "language_id", cand.LanguageID, "error", err)
		WriteInternalError(w, "Insertion failed")
		return
	}

	if !result.Inserted {
		WriteJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	h.labels.InvalidateLanguage(r.Context(), cand.LanguageID)
	WriteJSON(w, http.StatusCreated, result)
}

// BulkInsertLabels handles POST /api/labels/bulk-insert: bulk reconciliation
// of an ordered label list against one (language, group) pair.
func (h *Handler) BulkInsertLabels(w http.ResponseWriter, r *http.Request) {
	var req catalog.BulkRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	result, err := h.engine.ReconcileBulk(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrEmptyBatch):
			WriteBadRequest(w, "Batch must contain at least one label", nil)
		case errors.Is(err, catalog.ErrBatchTooLarge):
			WriteBadRequest(w, "Batch exceeds the maximum of "+strconv.Itoa(catalog.MaxBatchLabels)+" labels", nil)
		default:
			slog.Error("bulk reconciliation failed", "language_id", req.LanguageID, "error", err)
			WriteInternalError(w, "Bulk insertion failed")
		}
		return
	}

	if result.SuccessfulInsertions > 0 || result.SuccessfulUpdates > 0 {
		h.labels.InvalidateLanguage(r.Context(), req.LanguageID)
	}
	WriteJSON(w, http.StatusOK, result)
}

// DeleteTranslation handles DELETE /api/translations/{id} (admin only).
// Translations are hard-deleted; the affected language's cached labels
// are invalidated.
func (h *Handler) DeleteTranslation(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid translation ID", nil)
		return
	}

	tr, err := h.queries.GetTranslationByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Translation not found")
		} else {
			slog.Error("failed to retrieve translation", "id", id, "error", err)
			WriteInternalError(w, "Failed to retrieve translation")
		}
		return
	}

	if err := h.queries.DeleteTranslation(r.Context(), id); err != nil {
		slog.Error("failed to delete translation", "id", id, "error", err)
		WriteInternalError(w, "Failed to delete translation")
		return
	}

	h.labels.InvalidateLanguage(r.Context(), tr.LanguageID)
	slog.Info("translation deleted", "id", id, "language_id", tr.LanguageID)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
