package store

import (
	"context"
	"time"
)

const emailColumns = "id, email, created_at"

// CreateEmailParams holds the fields for CreateEmail.
type CreateEmailParams struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// CreateEmail inserts a new captured email address.
func (q *Queries) CreateEmail(ctx context.Context, arg CreateEmailParams) (Email, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO emails (id, email, created_at) VALUES (?, ?, ?)
		 RETURNING `+emailColumns,
		arg.ID, arg.Email, arg.CreatedAt)
	var e Email
	err := row.Scan(&e.ID, &e.Email, &e.CreatedAt)
	return e, err
}

// GetEmailByAddress fetches an email record by address.
func (q *Queries) GetEmailByAddress(ctx context.Context, address string) (Email, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+emailColumns+` FROM emails WHERE email = ?`, address)
	var e Email
	err := row.Scan(&e.ID, &e.Email, &e.CreatedAt)
	return e, err
}

// ListEmails returns all captured emails, newest first.
func (q *Queries) ListEmails(ctx context.Context) ([]Email, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+emailColumns+` FROM emails ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var emails []Email
	for rows.Next() {
		var e Email
		if err := rows.Scan(&e.ID, &e.Email, &e.CreatedAt); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// CountEmails returns the total number of captured emails.
func (q *Queries) CountEmails(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM emails`).Scan(&n)
	return n, err
}
