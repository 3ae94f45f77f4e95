package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the interface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries provides typed access to the catalog tables.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given database or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Language represents a row in the languages table.
type Language struct {
	ID        int64
	Name      string
	LangCode  string
	Direction string
	IsActive  int64
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LabelGroup represents a row in the label_groups table.
type LabelGroup struct {
	ID          int64
	GroupName   string
	Description string
	CreatedAt   time.Time
}

// LabelCode represents a row in the label_codes table.
type LabelCode struct {
	ID           int64
	Name         string
	LabelGroupID sql.NullInt64
	Description  string
	CreatedAt    time.Time
}

// LanguageLabel represents a row in the language_labels table: the text for
// one label code in one language.
type LanguageLabel struct {
	ID         int64
	LanguageID int64
	LabelID    int64
	LabelText  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ResolvedLabel is a language_labels row joined with its label code and group,
// so callers never traverse relationships lazily.
type ResolvedLabel struct {
	ID            int64
	LanguageID    int64
	LabelID       int64
	LabelCodeName string
	GroupName     string
	LabelText     string
	UpdatedAt     time.Time
}

// Email represents a captured email address.
type Email struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Event represents a system event log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string // JSON string
	CreatedAt time.Time
}
