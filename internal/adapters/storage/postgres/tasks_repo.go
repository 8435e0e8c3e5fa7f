package postgres

import (
	"context"
	"database/sql"
	"strings"

	"care-tracker/internal/domain/tasks"
)

type TasksRepo struct {
	db *sql.DB
}

func NewTasksRepo(db *sql.DB) *TasksRepo {
	return &TasksRepo{db: db}
}

func (r *TasksRepo) Create(ctx context.Context, item tasks.CareItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO care_items (
			id, pet_id, name, description, notes,
			category, display_order, created_at, active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		item.ID,
		item.PetID,
		item.Name,
		item.Description,
		item.Notes,
		string(item.Category),
		item.DisplayOrder,
		item.CreatedAt,
		item.Active,
	)
	return err
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (tasks.CareItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return tasks.CareItem{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, name, description, notes,
		       category, display_order, created_at, active
		FROM care_items
		WHERE id = $1
	`, id)

	return scanCareItem(row)
}

func (r *TasksRepo) ListByPet(ctx context.Context, petID string, includeInactive bool) ([]tasks.CareItem, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	q := `
		SELECT id, pet_id, name, description, notes,
		       category, display_order, created_at, active
		FROM care_items
		WHERE pet_id = $1
	`
	if !includeInactive {
		q += " AND active"
	}
	q += " ORDER BY display_order ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, q, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tasks.CareItem, 0)
	for rows.Next() {
		item, err := scanCareItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *TasksRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE care_items SET active = FALSE WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCareItem(row rowScanner) (tasks.CareItem, error) {
	var item tasks.CareItem
	var category string
	if err := row.Scan(
		&item.ID,
		&item.PetID,
		&item.Name,
		&item.Description,
		&item.Notes,
		&category,
		&item.DisplayOrder,
		&item.CreatedAt,
		&item.Active,
	); err != nil {
		if err == sql.ErrNoRows {
			return tasks.CareItem{}, ErrNotFound
		}
		return tasks.CareItem{}, err
	}
	item.Category = tasks.Category(category)
	return item, nil
}
