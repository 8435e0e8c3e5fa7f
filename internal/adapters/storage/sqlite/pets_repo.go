package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"care-tracker/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (id, name, species, notes, created_at, active)
		VALUES (?,?,?,?,?,?)
	`,
		p.ID,
		p.Name,
		string(p.Species),
		p.Notes,
		p.CreatedAt,
		p.Active,
	)
	return err
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, species, notes, created_at, active
		FROM pets
		WHERE id = ?
	`, id)

	return scanPet(row)
}

func (r *PetsRepo) List(ctx context.Context, includeInactive bool) ([]pets.Pet, error) {
	q := `
		SELECT id, name, species, notes, created_at, active
		FROM pets
	`
	if !includeInactive {
		q += " WHERE active"
	}
	q += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets SET active = FALSE WHERE id = ?
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

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var species string
	if err := row.Scan(&p.ID, &p.Name, &species, &p.Notes, &p.CreatedAt, &p.Active); err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)
	return p, nil
}
