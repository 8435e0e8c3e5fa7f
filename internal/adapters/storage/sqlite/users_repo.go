package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"care-tracker/internal/domain/careday"
	"care-tracker/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, name, created_at, last_seen,
			phone_number, wants_alerts, alert_expiry
		) VALUES (?,?,?,?,?,?,?)
	`,
		u.ID,
		u.Name,
		u.CreatedAt,
		u.LastSeen,
		u.PhoneNumber,
		u.WantsAlerts,
		expiryValue(u.AlertExpiry),
	)
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			last_seen = ?,
			phone_number = ?,
			wants_alerts = ?,
			alert_expiry = ?
		WHERE id = ?
	`,
		u.LastSeen,
		u.PhoneNumber,
		u.WantsAlerts,
		expiryValue(u.AlertExpiry),
		u.ID,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, last_seen,
		       phone_number, wants_alerts, alert_expiry
		FROM users
		WHERE id = ?
	`, id)

	return scanUser(row)
}

func (r *UsersRepo) GetByName(ctx context.Context, name string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, last_seen,
		       phone_number, wants_alerts, alert_expiry
		FROM users
		WHERE name = ?
	`, name)

	return scanUser(row)
}

func (r *UsersRepo) Search(ctx context.Context, prefix string) ([]users.User, error) {
	pattern := strings.ToLower(strings.TrimSpace(prefix)) + "%"

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, last_seen,
		       phone_number, wants_alerts, alert_expiry
		FROM users
		WHERE LOWER(name) LIKE ?
		ORDER BY name ASC
	`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func expiryValue(d *careday.Day) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User
	var expiry sql.NullString
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.CreatedAt,
		&u.LastSeen,
		&u.PhoneNumber,
		&u.WantsAlerts,
		&expiry,
	); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, ErrNotFound
		}
		return users.User{}, err
	}
	if expiry.Valid {
		d := careday.Day(expiry.String)
		u.AlertExpiry = &d
	}
	return u, nil
}
