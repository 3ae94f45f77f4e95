package store

import (
	"context"
	"time"
)

const labelGroupColumns = "id, group_name, description, created_at"

func scanLabelGroup(row interface{ Scan(...any) error }) (LabelGroup, error) {
	var g LabelGroup
	err := row.Scan(&g.ID, &g.GroupName, &g.Description, &g.CreatedAt)
	return g, err
}

// CreateLabelGroupParams holds the fields for CreateLabelGroup.
type CreateLabelGroupParams struct {
	GroupName   string
	Description string
	CreatedAt   time.Time
}

// CreateLabelGroup inserts a new label group.
func (q *Queries) CreateLabelGroup(ctx context.Context, arg CreateLabelGroupParams) (LabelGroup, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO label_groups (group_name, description, created_at)
		 VALUES (?, ?, ?)
		 RETURNING `+labelGroupColumns,
		arg.GroupName, arg.Description, arg.CreatedAt)
	return scanLabelGroup(row)
}

// GetLabelGroup fetches a label group by id.
func (q *Queries) GetLabelGroup(ctx context.Context, id int64) (LabelGroup, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+labelGroupColumns+` FROM label_groups WHERE id = ?`, id)
	return scanLabelGroup(row)
}

// GetLabelGroupByName fetches a label group by its unique name.
func (q *Queries) GetLabelGroupByName(ctx context.Context, name string) (LabelGroup, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+labelGroupColumns+` FROM label_groups WHERE group_name = ?`, name)
	return scanLabelGroup(row)
}

// ListLabelGroups returns all label groups ordered by name.
func (q *Queries) ListLabelGroups(ctx context.Context) ([]LabelGroup, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+labelGroupColumns+` FROM label_groups ORDER BY group_name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var groups []LabelGroup
	for rows.Next() {
		g, err := scanLabelGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

const labelCodeColumns = "id, name, label_group_id, description, created_at"

func scanLabelCode(row interface{ Scan(...any) error }) (LabelCode, error) {
	var c LabelCode
	err := row.Scan(&c.ID, &c.Name, &c.LabelGroupID, &c.Description, &c.CreatedAt)
	return c, err
}

// CreateLabelCodeParams holds the fields for CreateLabelCode.
type CreateLabelCodeParams struct {
	Name         string
	LabelGroupID int64
	Description  string
	CreatedAt    time.Time
}

// CreateLabelCode inserts a new label code scoped to a group. Fails with a
// uniqueness conflict if the (name, group) pair already exists.
func (q *Queries) CreateLabelCode(ctx context.Context, arg CreateLabelCodeParams) (LabelCode, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO label_codes (name, label_group_id, description, created_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+labelCodeColumns,
		arg.Name, arg.LabelGroupID, arg.Description, arg.CreatedAt)
	return scanLabelCode(row)
}

// GetLabelCode fetches a label code by id.
func (q *Queries) GetLabelCode(ctx context.Context, id int64) (LabelCode, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+labelCodeColumns+` FROM label_codes WHERE id = ?`, id)
	return scanLabelCode(row)
}

// GetLabelCodeByIDAndGroupParams holds the arguments for GetLabelCodeByIDAndGroup.
type GetLabelCodeByIDAndGroupParams struct {
	ID           int64
	LabelGroupID int64
}

// GetLabelCodeByIDAndGroup fetches a label code by id, constrained to the
// given group. A code that exists in a different group is not found.
func (q *Queries) GetLabelCodeByIDAndGroup(ctx context.Context, arg GetLabelCodeByIDAndGroupParams) (LabelCode, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+labelCodeColumns+` FROM label_codes WHERE id = ? AND label_group_id = ?`,
		arg.ID, arg.LabelGroupID)
	return scanLabelCode(row)
}

// GetLabelCodeByNameAndGroupParams holds the arguments for GetLabelCodeByNameAndGroup.
type GetLabelCodeByNameAndGroupParams struct {
	Name         string
	LabelGroupID int64
}

// GetLabelCodeByNameAndGroup fetches a label code by its (name, group) pair.
func (q *Queries) GetLabelCodeByNameAndGroup(ctx context.Context, arg GetLabelCodeByNameAndGroupParams) (LabelCode, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+labelCodeColumns+` FROM label_codes WHERE name = ? AND label_group_id = ?`,
		arg.Name, arg.LabelGroupID)
	return scanLabelCode(row)
}

// ListLabelCodesByGroup returns all label codes in a group ordered by name.
func (q *Queries) ListLabelCodesByGroup(ctx context.Context, labelGroupID int64) ([]LabelCode, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+labelCodeColumns+` FROM label_codes WHERE label_group_id = ? ORDER BY name`,
		labelGroupID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var codes []LabelCode
	for rows.Next() {
		c, err := scanLabelCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}
