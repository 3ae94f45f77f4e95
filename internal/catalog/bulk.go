package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eindr/labeld/internal/store"
)

// ReconcileBulk processes an ordered batch of (label code name, text) pairs
// against one (language, group) pair, classifying every item as inserted,
// updated, skipped or failed. Label codes missing from the target group are
// auto-created. One item's failure never affects another item or aborts the
// remaining batch.
func (e *Engine) ReconcileBulk(ctx context.Context, req BulkRequest) (BulkResult, error) {
	if len(req.Labels) < MinBatchLabels {
		return BulkResult{}, ErrEmptyBatch
	}
	if len(req.Labels) > MaxBatchLabels {
		return BulkResult{}, ErrBatchTooLarge
	}

	result := BulkResult{TotalLabels: len(req.Labels)}

	// Top-level preconditions, checked once: a missing language or group
	// rejects the whole batch before any per-item work.
	if _, err := e.store.GetLanguage(ctx, req.LanguageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			result.FailedInsertions = len(req.Labels)
			result.Message = msgLanguageNotFound
			return result, nil
		}
		return BulkResult{}, fmt.Errorf("looking up language %d: %w", req.LanguageID, err)
	}
	if _, err := e.store.GetLabelGroup(ctx, req.LabelGroupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			result.FailedInsertions = len(req.Labels)
			result.Message = msgLabelGroupNotFound
			return result, nil
		}
		return BulkResult{}, fmt.Errorf("looking up label group %d: %w", req.LabelGroupID, err)
	}

	for _, label := range req.Labels {
		item := e.reconcileLabel(ctx, req, label)
		switch item.Action {
		case ActionInserted:
			result.SuccessfulInsertions++
		case ActionUpdated:
			result.SuccessfulUpdates++
		case ActionSkipped:
			result.SkippedLabels++
		case ActionFailed, ActionFailedUpdate:
			result.FailedInsertions++
		}
		result.Results = append(result.Results, item)
	}

	result.Success = result.FailedInsertions == 0
	result.Message = summarize(result)

	slog.Info("bulk reconciliation finished",
		"category", "catalog",
		"language_id", req.LanguageID,
		"label_group_id", req.LabelGroupID,
		"total", result.TotalLabels,
		"inserted", result.SuccessfulInsertions,
		"updated", result.SuccessfulUpdates,
		"skipped", result.SkippedLabels,
		"failed", result.FailedInsertions,
	)
	return result, nil
}

// reconcileLabel applies the decision table to a single batch item. Storage
// errors are captured in the result, never propagated, so that per-item
// failures stay isolated.
func (e *Engine) reconcileLabel(ctx context.Context, req BulkRequest, label BulkLabel) ItemResult {
	item := ItemResult{LabelCodeName: label.LabelCodeName}

	code, err := e.resolveLabelCode(ctx, label.LabelCodeName, req.LabelGroupID)
	if err != nil {
		item.Action = ActionFailed
		item.Message = fmt.Sprintf("resolving label code: %v", err)
		return item
	}

	existing, err := e.store.GetTranslation(ctx, store.GetTranslationParams{
		LanguageID: req.LanguageID,
		LabelID:    code.ID,
	})
	now := time.Now()
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created, err := e.store.CreateTranslation(ctx, store.CreateTranslationParams{
			LanguageID: req.LanguageID,
			LabelID:    code.ID,
			LabelText:  label.LabelText,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				// A concurrent writer (or an earlier item targeting the same
				// code) committed first; first-committed-write-wins.
				item.Action = ActionSkipped
				item.Success = true
				item.Message = msgDuplicate
				return item
			}
			item.Action = ActionFailed
			item.Message = fmt.Sprintf("inserting translation: %v", err)
			return item
		}
		item.Action = ActionInserted
		item.Success = true
		item.Message = "translation inserted"
		item.TranslationID = created.ID
		return item

	case err != nil:
		item.Action = ActionFailed
		item.Message = fmt.Sprintf("looking up translation: %v", err)
		return item

	case !req.AllowUpdates:
		item.Action = ActionSkipped
		item.Success = true
		item.Message = "translation exists, updates not allowed"
		item.TranslationID = existing.ID
		return item

	case existing.LabelText == label.LabelText:
		// Idempotent no-op: the stored text already matches.
		item.Action = ActionSkipped
		item.Success = true
		item.Message = "translation text unchanged"
		item.TranslationID = existing.ID
		return item

	default:
		updated, err := e.store.UpdateTranslationText(ctx, store.UpdateTranslationTextParams{
			ID:        existing.ID,
			LabelText: label.LabelText,
			UpdatedAt: now,
		})
		if err != nil {
			item.Action = ActionFailedUpdate
			item.Message = fmt.Sprintf("updating translation: %v", err)
			return item
		}
		item.Action = ActionUpdated
		item.Success = true
		item.Message = "translation updated"
		item.TranslationID = updated.ID
		return item
	}
}

// resolveLabelCode finds a label code by (name, group), auto-creating it in
// the target group when absent. Label taxonomy grows organically as
// translators submit new keys. A uniqueness conflict on create means another
// writer provisioned the code first; it is re-read and reused.
func (e *Engine) resolveLabelCode(ctx context.Context, name string, groupID int64) (store.LabelCode, error) {
	byName := store.GetLabelCodeByNameAndGroupParams{Name: name, LabelGroupID: groupID}

	code, err := e.store.GetLabelCodeByNameAndGroup(ctx, byName)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return store.LabelCode{}, err
	}

	code, err = e.store.CreateLabelCode(ctx, store.CreateLabelCodeParams{
		Name:         name,
		LabelGroupID: groupID,
		CreatedAt:    time.Now(),
	})
	if err == nil {
		slog.Info("label code auto-created",
			"category", "catalog",
			"label_code", name,
			"label_group_id", groupID,
		)
		return code, nil
	}
	if store.IsUniqueViolation(err) {
		return e.store.GetLabelCodeByNameAndGroup(ctx, byName)
	}
	return store.LabelCode{}, err
}

// summarize composes the human-readable message listing non-zero counters.
func summarize(r BulkResult) string {
	var parts []string
	if r.SuccessfulInsertions > 0 {
		parts = append(parts, fmt.Sprintf("%d inserted", r.SuccessfulInsertions))
	}
	if r.SuccessfulUpdates > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", r.SuccessfulUpdates))
	}
	if r.SkippedLabels > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.SkippedLabels))
	}
	if r.FailedInsertions > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.FailedInsertions))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("processed %d labels", r.TotalLabels)
	}
	return fmt.Sprintf("processed %d labels: %s", r.TotalLabels, strings.Join(parts, ", "))
}
