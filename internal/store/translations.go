package store

import (
	"context"
	"time"
)

const languageLabelColumns = "id, language_id, label_id, label_text, created_at, updated_at"

func scanLanguageLabel(row interface{ Scan(...any) error }) (LanguageLabel, error) {
	var t LanguageLabel
	err := row.Scan(&t.ID, &t.LanguageID, &t.LabelID, &t.LabelText, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTranslationParams holds the fields for CreateTranslation.
type CreateTranslationParams struct {
	LanguageID int64
	LabelID    int64
	LabelText  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateTranslation inserts a new translation row. Fails with a uniqueness
// conflict if a translation for (language, label) already exists.
func (q *Queries) CreateTranslation(ctx context.Context, arg CreateTranslationParams) (LanguageLabel, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO language_labels (language_id, label_id, label_text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+languageLabelColumns,
		arg.LanguageID, arg.LabelID, arg.LabelText, arg.CreatedAt, arg.UpdatedAt)
	return scanLanguageLabel(row)
}

// GetTranslationParams holds the arguments for GetTranslation.
type GetTranslationParams struct {
	LanguageID int64
	LabelID    int64
}

// GetTranslation fetches the translation for a (language, label) pair.
func (q *Queries) GetTranslation(ctx context.Context, arg GetTranslationParams) (LanguageLabel, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+languageLabelColumns+` FROM language_labels WHERE language_id = ? AND label_id = ?`,
		arg.LanguageID, arg.LabelID)
	return scanLanguageLabel(row)
}

// GetTranslationByID fetches a translation by primary key.
func (q *Queries) GetTranslationByID(ctx context.Context, id int64) (LanguageLabel, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+languageLabelColumns+` FROM language_labels WHERE id = ?`, id)
	return scanLanguageLabel(row)
}

// UpdateTranslationTextParams holds the arguments for UpdateTranslationText.
type UpdateTranslationTextParams struct {
	ID        int64
	LabelText string
	UpdatedAt time.Time
}

// UpdateTranslationText updates the text of an existing translation in place.
func (q *Queries) UpdateTranslationText(ctx context.Context, arg UpdateTranslationTextParams) (LanguageLabel, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE language_labels SET label_text = ?, updated_at = ? WHERE id = ?
		 RETURNING `+languageLabelColumns,
		arg.LabelText, arg.UpdatedAt, arg.ID)
	return scanLanguageLabel(row)
}

// DeleteTranslation hard-deletes a translation row.
func (q *Queries) DeleteTranslation(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM language_labels WHERE id = ?`, id)
	return err
}

// ListResolvedLabelsParams holds the arguments for ListResolvedLabels.
// LabelGroupID of 0 means all groups.
type ListResolvedLabelsParams struct {
	LanguageID   int64
	LabelGroupID int64
}

// ListResolvedLabels returns translations for a language joined with their
// label code and group names, ordered by group then code.
func (q *Queries) ListResolvedLabels(ctx context.Context, arg ListResolvedLabelsParams) ([]ResolvedLabel, error) {
	query := `SELECT ll.id, ll.language_id, ll.label_id, lc.name, lg.group_name, ll.label_text, ll.updated_at
		 FROM language_labels ll
		 JOIN label_codes lc ON lc.id = ll.label_id
		 JOIN label_groups lg ON lg.id = lc.label_group_id
		 WHERE ll.language_id = ?`
	args := []any{arg.LanguageID}
	if arg.LabelGroupID != 0 {
		query += ` AND lc.label_group_id = ?`
		args = append(args, arg.LabelGroupID)
	}
	query += ` ORDER BY lg.group_name, lc.name`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var labels []ResolvedLabel
	for rows.Next() {
		var r ResolvedLabel
		if err := rows.Scan(&r.ID, &r.LanguageID, &r.LabelID, &r.LabelCodeName, &r.GroupName, &r.LabelText, &r.UpdatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, r)
	}
	return labels, rows.Err()
}

// CountTranslations returns the total number of translation rows.
func (q *Queries) CountTranslations(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM language_labels`).Scan(&n)
	return n, err
}
