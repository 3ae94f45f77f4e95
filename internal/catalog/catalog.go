// Package catalog implements the label catalog consistency engine: candidate
// validation, the validate/insert/verify insertion protocol, and bulk
// reconciliation of translations against existing state.
package catalog

import (
	"context"
	"errors"

	"github.com/eindr/labeld/internal/store"
)

// Batch size bounds for bulk reconciliation. A batch is kept small enough to
// fit one practical transaction scope on the storage side.
const (
	MinBatchLabels = 1
	MaxBatchLabels = 100
)

var (
	// ErrEmptyBatch is returned when a bulk request carries no labels.
	ErrEmptyBatch = errors.New("catalog: bulk request contains no labels")
	// ErrBatchTooLarge is returned when a bulk request exceeds MaxBatchLabels.
	ErrBatchTooLarge = errors.New("catalog: bulk request exceeds maximum batch size")
)

// Store is the slice of the repository the engine consumes. *store.Queries
// satisfies it; tests substitute failing implementations.
type Store interface {
	GetLanguage(ctx context.Context, id int64) (store.Language, error)
	GetLabelGroup(ctx context.Context, id int64) (store.LabelGroup, error)
	GetLabelCodeByIDAndGroup(ctx context.Context, arg store.GetLabelCodeByIDAndGroupParams) (store.LabelCode, error)
	GetLabelCodeByNameAndGroup(ctx context.Context, arg store.GetLabelCodeByNameAndGroupParams) (store.LabelCode, error)
	CreateLabelCode(ctx context.Context, arg store.CreateLabelCodeParams) (store.LabelCode, error)
	GetTranslation(ctx context.Context, arg store.GetTranslationParams) (store.LanguageLabel, error)
	CreateTranslation(ctx context.Context, arg store.CreateTranslationParams) (store.LanguageLabel, error)
	UpdateTranslationText(ctx context.Context, arg store.UpdateTranslationTextParams) (store.LanguageLabel, error)
}

// Engine holds the repository dependency for all catalog operations. It keeps
// no other state; every operation runs to completion within one call.
type Engine struct {
	store Store
}

// NewEngine creates a catalog engine over the given store.
func NewEngine(s Store) *Engine {
	return &Engine{store: s}
}

// Candidate identifies a prospective translation to be validated or inserted.
type Candidate struct {
	LanguageID   int64  `json:"language_id"`
	LabelGroupID int64  `json:"label_group_id"`
	LabelCodeID  int64  `json:"label_code_id"`
	LabelText    string `json:"label_text"`
}

// Verdict is the structured output of candidate validation. The four facts
// are independent; Valid is their conjunction with TranslationExists negated.
type Verdict struct {
	LanguageExists    bool   `json:"language_exists"`
	LabelGroupExists  bool   `json:"label_group_exists"`
	LabelCodeExists   bool   `json:"label_code_exists"`
	TranslationExists bool   `json:"translation_exists"`
	Valid             bool   `json:"valid"`
	Message           string `json:"message"`
}

// InsertResult is the outcome of the single-item insertion protocol.
// On rejection Inserted is false and the Verdict carries the reason; no row
// has been written.
type InsertResult struct {
	Inserted    bool                 `json:"inserted"`
	Verdict     Verdict              `json:"verdict"`
	Translation *store.LanguageLabel `json:"-"`
}

// Action classifies the outcome of one bulk item.
type Action string

// Bulk item actions.
const (
	ActionInserted     Action = "inserted"
	ActionUpdated      Action = "updated"
	ActionSkipped      Action = "skipped"
	ActionFailed       Action = "failed"
	ActionFailedUpdate Action = "failed_update"
)

// BulkLabel is one (label code name, text) pair in a bulk request.
type BulkLabel struct {
	LabelCodeName string `json:"label_code_name"`
	LabelText     string `json:"label_text"`
}

// BulkRequest reconciles an ordered list of labels against one
// (language, group) pair.
type BulkRequest struct {
	LanguageID   int64       `json:"language_id"`
	LabelGroupID int64       `json:"label_group_id"`
	Labels       []BulkLabel `json:"labels"`
	AllowUpdates bool        `json:"allow_updates"`
}

// ItemResult is the per-item outcome of bulk reconciliation.
type ItemResult struct {
	LabelCodeName string `json:"label_code_name"`
	Action        Action `json:"action"`
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TranslationID int64  `json:"translation_id,omitempty"`
}

// BulkResult aggregates the outcomes of one bulk reconciliation call.
type BulkResult struct {
	TotalLabels          int          `json:"total_labels"`
	SuccessfulInsertions int          `json:"successful_insertions"`
	SuccessfulUpdates    int          `json:"successful_updates"`
	FailedInsertions     int          `json:"failed_insertions"`
	SkippedLabels        int          `json:"skipped_labels"`
	Success              bool         `json:"success"`
	Message              string       `json:"message"`
	Results              []ItemResult `json:"results"`
}
