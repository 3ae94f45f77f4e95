package store

import (
	"context"
	"time"
)

const languageColumns = "id, name, lang_code, direction, is_active, icon, created_at, updated_at"

func scanLanguage(row interface{ Scan(...any) error }) (Language, error) {
	var l Language
	err := row.Scan(&l.ID, &l.Name, &l.LangCode, &l.Direction, &l.IsActive, &l.Icon, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// CreateLanguageParams holds the fields for CreateLanguage.
type CreateLanguageParams struct {
	Name      string
	LangCode  string
	Direction string
	IsActive  int64
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateLanguage inserts a new language.
func (q *Queries) CreateLanguage(ctx context.Context, arg CreateLanguageParams) (Language, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO languages (name, lang_code, direction, is_active, icon, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+languageColumns,
		arg.Name, arg.LangCode, arg.Direction, arg.IsActive, arg.Icon, arg.CreatedAt, arg.UpdatedAt)
	return scanLanguage(row)
}

// GetLanguage fetches a language by id.
func (q *Queries) GetLanguage(ctx context.Context, id int64) (Language, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE id = ?`, id)
	return scanLanguage(row)
}

// GetLanguageByCode fetches a language by its lang_code.
func (q *Queries) GetLanguageByCode(ctx context.Context, code string) (Language, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE lang_code = ?`, code)
	return scanLanguage(row)
}

// ListLanguages returns all languages ordered by name.
func (q *Queries) ListLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+languageColumns+` FROM languages ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var languages []Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// ListActiveLanguages returns all active languages ordered by name.
func (q *Queries) ListActiveLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var languages []Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// UpdateLanguageParams holds the fields for UpdateLanguage.
type UpdateLanguageParams struct {
	ID        int64
	Name      string
	LangCode  string
	Direction string
	IsActive  int64
	Icon      string
	UpdatedAt time.Time
}

// UpdateLanguage updates all mutable fields of a language.
func (q *Queries) UpdateLanguage(ctx context.Context, arg UpdateLanguageParams) (Language, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE languages
		 SET name = ?, lang_code = ?, direction = ?, is_active = ?, icon = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+languageColumns,
		arg.Name, arg.LangCode, arg.Direction, arg.IsActive, arg.Icon, arg.UpdatedAt, arg.ID)
	return scanLanguage(row)
}

// DeactivateLanguage soft-deletes a language by clearing is_active. Languages
// are never hard-deleted while translations reference them.
func (q *Queries) DeactivateLanguage(ctx context.Context, id int64) (Language, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE languages SET is_active = 0, updated_at = ? WHERE id = ?
		 RETURNING `+languageColumns,
		time.Now(), id)
	return scanLanguage(row)
}

// CountLanguages returns the total number of languages.
func (q *Queries) CountLanguages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM languages`).Scan(&n)
	return n, err
}
