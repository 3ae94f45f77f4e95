package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/eindr/labeld/internal/store"
)

// LabelCodeResponse is the API representation of a label code.
type LabelCodeResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	LabelGroupID int64     `json:"label_group_id,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toLabelCodeResponse(c store.LabelCode) LabelCodeResponse {
	return LabelCodeResponse{
		ID:           c.ID,
		Name:         c.Name,
		LabelGroupID: c.LabelGroupID.Int64,
		Description:  c.Description,
		CreatedAt:    c.CreatedAt,
	}
}

// labelCodeRequest is the request body for creating a label code.
type labelCodeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListLabelCodes handles GET /api/label-groups/{id}/codes.
func (h *Handler) ListLabelCodes(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid label group ID", nil)
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

	codes, err := h.queries.ListLabelCodesByGroup(r.Context(), groupID)
	if err != nil {
		slog.Error("failed to list label codes", "group_id", groupID, "error", err)
		WriteInternalError(w, "Failed to list label codes")
		return
	}

	resp := make([]LabelCodeResponse, 0, len(codes))
	for _, c := range codes {
		resp = append(resp, toLabelCodeResponse(c))
	}
	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}

// GetLabelCode handles GET /api/label-groups/{id}/codes/{codeID}.
// A code that lives in a different group is reported as not found.
func (h *Handler) GetLabelCode(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid label group ID", nil)
		return
	}
	codeID, err := parseURLParam(r, "codeID")
	if err != nil {
		WriteBadRequest(w, "Invalid label code ID", nil)
		return
	}

	code, err := h.queries.GetLabelCodeByIDAndGroup(r.Context(), store.GetLabelCodeByIDAndGroupParams{
		ID:           codeID,
		LabelGroupID: groupID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Label code not found")
		} else {
			slog.Error("failed to retrieve label code", "id", codeID, "group_id", groupID, "error", err)
			WriteInternalError(w, "Failed to retrieve label code")
		}
		return
	}

	WriteSuccess(w, toLabelCodeResponse(code), nil)
}

// CreateLabelCode handles POST /api/label-groups/{id}/codes.
func (h *Handler) CreateLabelCode(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid label group ID", nil)
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

	var req labelCodeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return
	}

	code, err := h.queries.CreateLabelCode(r.Context(), store.CreateLabelCodeParams{
		Name:         req.Name,
		LabelGroupID: groupID,
		Description:  req.Description,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "A label code with this name already exists in the group")
			return
		}
		slog.Error("failed to create label code", "name", req.Name, "group_id", groupID, "error", err)
		WriteInternalError(w, "Failed to create label code")
		return
	}

	slog.Info("label code created", "id", code.ID, "name", code.Name, "group_id", groupID)
	WriteCreated(w, toLabelCodeResponse(code))
}
