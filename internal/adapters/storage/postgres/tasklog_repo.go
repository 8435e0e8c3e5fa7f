package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"care-tracker/internal/domain/careday"
	"care-tracker/internal/domain/tasklog"
)

type TaskLogRepo struct {
	db *sql.DB
}

func NewTaskLogRepo(db *sql.DB) *TaskLogRepo {
	return &TaskLogRepo{db: db}
}

// Append es un INSERT simple: una escritura transaccional por entrada.
// Dos completados simultáneos desde dos teléfonos quedan como dos filas
// distintas; el orden lo da (ts, seq), nunca un lock de aplicación.
func (r *TaskLogRepo) Append(ctx context.Context, e tasklog.Entry) (tasklog.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO task_logs (id, task_id, care_day, action, completed_by, notes, ts)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING seq
	`,
		e.ID,
		e.TaskID,
		e.CareDay.String(),
		string(e.Action),
		e.CompletedBy,
		e.Notes,
		e.Timestamp,
	)

	if err := row.Scan(&e.Seq); err != nil {
		return tasklog.Entry{}, err
	}
	return e, nil
}

func (r *TaskLogRepo) ListForDay(ctx context.Context, taskID string, day careday.Day) ([]tasklog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, id, task_id, care_day, action, completed_by, notes, ts
		FROM task_logs
		WHERE task_id = $1 AND care_day = $2
		ORDER BY ts ASC, seq ASC
	`, taskID, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *TaskLogRepo) History(ctx context.Context, filter tasklog.Filter) ([]tasklog.Entry, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT seq, id, task_id, care_day, action, completed_by, notes, ts
		FROM task_logs
		WHERE 1=1
	`)

	args := []any{}
	argN := 1

	if len(filter.TaskIDs) > 0 {
		placeholders := make([]string, 0, len(filter.TaskIDs))
		for _, id := range filter.TaskIDs {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, id)
			argN++
		}
		sb.WriteString(" AND task_id IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND care_day >= $%d", argN))
		args = append(args, filter.From.String())
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND care_day <= $%d", argN))
		args = append(args, filter.To.String())
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	sb.WriteString(" ORDER BY ts DESC, seq DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *TaskLogRepo) ListRange(ctx context.Context, from, to careday.Day) ([]tasklog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, id, task_id, care_day, action, completed_by, notes, ts
		FROM task_logs
		WHERE care_day >= $1 AND care_day <= $2
		ORDER BY ts ASC, seq ASC
	`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *TaskLogRepo) OldestDay(ctx context.Context) (careday.Day, bool, error) {
	// MIN sobre tabla vacía devuelve NULL, de ahí el NullString.
	var day sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT MIN(care_day) FROM task_logs
	`).Scan(&day)
	if err != nil || !day.Valid {
		return "", false, err
	}
	return careday.Day(day.String), true, nil
}

func scanEntries(rows *sql.Rows) ([]tasklog.Entry, error) {
	out := make([]tasklog.Entry, 0)
	for rows.Next() {
		var e tasklog.Entry
		var day, action string
		if err := rows.Scan(
			&e.Seq,
			&e.ID,
			&e.TaskID,
			&day,
			&action,
			&e.CompletedBy,
			&e.Notes,
			&e.Timestamp,
		); err != nil {
			return nil, err
		}
		e.CareDay = careday.Day(day)
		e.Action = tasklog.Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
