package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eindr/labeld/internal/store"
)

// InsertWithVerification runs the three-phase insertion protocol:
// validate, insert, verify. Validation is advisory; if another writer wins
// the race between validation and insert, the storage uniqueness constraint
// is authoritative and the candidate is rejected as a duplicate. On success
// exactly one row has been created; on rejection none.
func (e *Engine) InsertWithVerification(ctx context.Context, cand Candidate) (InsertResult, error) {
	verdict, err := e.Validate(ctx, cand)
	if err != nil {
		return InsertResult{}, err
	}
	if !verdict.Valid {
		slog.Info("translation insert rejected",
			"category", "catalog",
			"language_id", cand.LanguageID,
			"label_code_id", cand.LabelCodeID,
			"reason", verdict.Message,
		)
		return InsertResult{Verdict: verdict}, nil
	}

	now := time.Now()
	created, err := e.store.CreateTranslation(ctx, store.CreateTranslationParams{
		LanguageID: cand.LanguageID,
		LabelID:    cand.LabelCodeID,
		LabelText:  cand.LabelText,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			verdict.TranslationExists = true
			verdict.Valid = false
			verdict.Message = msgDuplicate
			slog.Info("translation insert lost race to concurrent writer",
				"category", "catalog",
				"language_id", cand.LanguageID,
				"label_code_id", cand.LabelCodeID,
			)
			return InsertResult{Verdict: verdict}, nil
		}
		return InsertResult{}, fmt.Errorf("inserting translation: %w", err)
	}

	// Verification phase: re-read by the logical key and confirm the row
	// matches what was requested.
	got, err := e.store.GetTranslation(ctx, store.GetTranslationParams{
		LanguageID: cand.LanguageID,
		LabelID:    cand.LabelCodeID,
	})
	if err != nil {
		return InsertResult{}, fmt.Errorf("verifying translation %d: %w", created.ID, err)
	}
	if got.ID != created.ID || got.LabelText != cand.LabelText {
		return InsertResult{}, fmt.Errorf("verification mismatch for translation %d", created.ID)
	}

	slog.Info("translation inserted",
		"category", "catalog",
		"translation_id", got.ID,
		"language_id", cand.LanguageID,
		"label_code_id", cand.LabelCodeID,
	)
	return InsertResult{Inserted: true, Verdict: verdict, Translation: &got}, nil
}
