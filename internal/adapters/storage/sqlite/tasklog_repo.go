package sqlite

import (
	"context"
	"database/sql"
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

// Append inserta una fila y recupera el rowid como seq: sqlite no tiene
// RETURNING en versiones viejas, pero LastInsertId es equivalente para
// un INTEGER PRIMARY KEY.
func (r *TaskLogRepo) Append(ctx context.Context, e tasklog.Entry) (tasklog.Entry, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO task_logs (id, task_id, care_day, action, completed_by, notes, ts)
		VALUES (?,?,?,?,?,?,?)
	`,
		e.ID,
		e.TaskID,
		e.CareDay.String(),
		string(e.Action),
		e.CompletedBy,
		e.Notes,
		e.Timestamp,
	)
	if err != nil {
		return tasklog.Entry{}, err
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return tasklog.Entry{}, err
	}
	e.Seq = seq
	return e, nil
}

func (r *TaskLogRepo) ListForDay(ctx context.Context, taskID string, day careday.Day) ([]tasklog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, id, task_id, care_day, action, completed_by, notes, ts
		FROM task_logs
		WHERE task_id = ? AND care_day = ?
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

	if len(filter.TaskIDs) > 0 {
		placeholders := make([]string, 0, len(filter.TaskIDs))
		for _, id := range filter.TaskIDs {
			placeholders = append(placeholders, "?")
			args = append(args, id)
		}
		sb.WriteString(" AND task_id IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.From != nil {
		sb.WriteString(" AND care_day >= ?")
		args = append(args, filter.From.String())
	}
	if filter.To != nil {
		sb.WriteString(" AND care_day <= ?")
		args = append(args, filter.To.String())
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	sb.WriteString(" ORDER BY ts DESC, seq DESC LIMIT ?")
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
		WHERE care_day >= ? AND care_day <= ?
		ORDER BY ts ASC, seq ASC
	`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *TaskLogRepo) OldestDay(ctx context.Context) (careday.Day, bool, error) {
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
