package sqlite

import (
	"context"
	"database/sql"

	"care-tracker/internal/domain/timers"
)

type TimersRepo struct {
	db *sql.DB
}

func NewTimersRepo(db *sql.DB) *TimersRepo {
	return &TimersRepo{db: db}
}

func (r *TimersRepo) Get(ctx context.Context, petID string) (timers.State, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT pet_id, ends_at, label, alert_sent
		FROM pet_timers
		WHERE pet_id = ?
	`, petID)

	st, err := scanTimer(row)
	if err == sql.ErrNoRows {
		// sin fila = timer idle, no es un error
		return timers.State{PetID: petID}, nil
	}
	if err != nil {
		return timers.State{}, err
	}
	return st, nil
}

// Set reemplaza incondicionalmente el timer de la mascota; el upsert
// resetea alert_sent porque es un timer nuevo.
func (r *TimersRepo) Set(ctx context.Context, st timers.State) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_timers (pet_id, ends_at, label, alert_sent)
		VALUES (?,?,?,?)
		ON CONFLICT (pet_id) DO UPDATE SET
			ends_at = excluded.ends_at,
			label = excluded.label,
			alert_sent = excluded.alert_sent
	`,
		st.PetID,
		st.EndsAt,
		st.Label,
		st.AlertSent,
	)
	return err
}

func (r *TimersRepo) Clear(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM pet_timers WHERE pet_id = ?
	`, petID)
	return err
}

func (r *TimersRepo) ListActive(ctx context.Context) ([]timers.State, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pet_id, ends_at, label, alert_sent
		FROM pet_timers
		ORDER BY ends_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]timers.State, 0)
	for rows.Next() {
		st, err := scanTimer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *TimersRepo) MarkAlerted(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pet_timers SET alert_sent = TRUE WHERE pet_id = ?
	`, petID)
	return err
}

func scanTimer(row rowScanner) (timers.State, error) {
	var st timers.State
	if err := row.Scan(&st.PetID, &st.EndsAt, &st.Label, &st.AlertSent); err != nil {
		return timers.State{}, err
	}
	return st, nil
}
