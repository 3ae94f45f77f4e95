package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eindr/labeld/internal/store"
)

// Verdict reason messages, one per failing condition in priority order.
const (
	msgLanguageNotFound   = "language not found"
	msgLabelGroupNotFound = "label group not found"
	msgLabelCodeNotFound  = "label code not found in the given label group"
	msgDuplicate          = "translation already exists for this language and label code"
	msgValid              = "validation passed"
)

// Validate checks a candidate translation against the referential-integrity
// rules. Not-found conditions are expected outcomes reported as verdict
// facts; only storage failures return an error.
func (e *Engine) Validate(ctx context.Context, cand Candidate) (Verdict, error) {
	var v Verdict

	if _, err := e.store.GetLanguage(ctx, cand.LanguageID); err == nil {
		// Inactive languages still count as existing.
		v.LanguageExists = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Verdict{}, fmt.Errorf("looking up language %d: %w", cand.LanguageID, err)
	}

	if _, err := e.store.GetLabelGroup(ctx, cand.LabelGroupID); err == nil {
		v.LabelGroupExists = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Verdict{}, fmt.Errorf("looking up label group %d: %w", cand.LabelGroupID, err)
	}

	// Cross-entity invariant: the code must exist AND belong to the supplied
	// group. A code living in a different group fails this fact.
	if _, err := e.store.GetLabelCodeByIDAndGroup(ctx, store.GetLabelCodeByIDAndGroupParams{
		ID:           cand.LabelCodeID,
		LabelGroupID: cand.LabelGroupID,
	}); err == nil {
		v.LabelCodeExists = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Verdict{}, fmt.Errorf("looking up label code %d: %w", cand.LabelCodeID, err)
	}

	if _, err := e.store.GetTranslation(ctx, store.GetTranslationParams{
		LanguageID: cand.LanguageID,
		LabelID:    cand.LabelCodeID,
	}); err == nil {
		v.TranslationExists = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Verdict{}, fmt.Errorf("looking up translation: %w", err)
	}

	v.Valid = v.LanguageExists && v.LabelGroupExists && v.LabelCodeExists && !v.TranslationExists
	v.Message = verdictMessage(v)
	return v, nil
}

// verdictMessage names the first failing condition in the fixed priority
// order language, group, code, duplicate.
func verdictMessage(v Verdict) string {
	switch {
	case !v.LanguageExists:
		return msgLanguageNotFound
	case !v.LabelGroupExists:
		return msgLabelGroupNotFound
	case !v.LabelCodeExists:
		return msgLabelCodeNotFound
	case v.TranslationExists:
		return msgDuplicate
	default:
		return msgValid
	}
}
