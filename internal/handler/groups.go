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

// LabelGroupResponse is the API representation of a label group.
type LabelGroupResponse struct {
	ID          int64     `json:"id"`
	GroupName   string    `json:"group_name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLabelGroupResponse(g store.LabelGroup) LabelGroupResponse {
	return LabelGroupResponse{
		ID:          g.ID,
		GroupName:   g.GroupName,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
	}
}

// labelGroupRequest is the request body for creating a label group.
type labelGroupRequest struct {
	GroupName   string `json:"group_name"`
	Description string `json:"description"`
}

// ListLabelGroups handles GET /api/label-groups.
func (h *Handler) ListLabelGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.queries.ListLabelGroups(r.Context())
	if err != nil {
		slog.Error("failed to list label groups", "error", err)
		WriteInternalError(w, "Failed to list label groups")
		return
	}

	resp := make([]LabelGroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toLabelGroupResponse(g))
	}
	WriteSuccess(w, resp, &Meta{Total: int64(len(resp))})
}

// GetLabelGroup handles GET /api/label-groups/{id}.
func (h *Handler) GetLabelGroup(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid label group ID", nil)
		return
	}

	group, err := h.queries.GetLabelGroup(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Label group not found")
		} else {
			slog.Error("failed to get label group", "id", id, "error", err)
			WriteInternalError(w, "Failed to retrieve label group")
		}
		return
	}

	WriteSuccess(w, toLabelGroupResponse(group), nil)
}

// CreateLabelGroup handles POST /api/label-groups.
func (h *Handler) CreateLabelGroup(w http.ResponseWriter, r *http.Request) {
	var req labelGroupRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.GroupName = strings.TrimSpace(req.GroupName)
	if req.GroupName == "" {
		WriteValidationError(w, map[string]string{"group_name": "Group name is required"})
		return
	}

	group, err := h.queries.CreateLabelGroup(r.Context(), store.CreateLabelGroupParams{
		GroupName:   req.GroupName,
		Description: req.Description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			WriteConflict(w, "A label group with this name already exists")
			return
		}
		slog.Error("failed to create label group", "group_name", req.GroupName, "error", err)
		WriteInternalError(w, "Failed to create label group")
		return
	}

	slog.Info("label group created", "id", group.ID, "group_name", group.GroupName)
	WriteCreated(w, toLabelGroupResponse(group))
}
