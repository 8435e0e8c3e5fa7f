package tasklog

import (
	"context"

	"care-tracker/internal/domain/careday"
)

type Repository interface {
	// Append agrega la entrada y devuelve la versión persistida (con
	// Seq asignado). Es la única escritura del log: no hay update ni
	// delete por diseño.
	Append(ctx context.Context, e Entry) (Entry, error)

	// ListForDay devuelve las entradas de (task, care day) ordenadas
	// por timestamp asc, empates por seq asc.
	ListForDay(ctx context.Context, taskID string, day careday.Day) ([]Entry, error)

	// History devuelve entradas ordenadas por timestamp desc, empates
	// por seq desc (lo más reciente primero). Para auditoría, no para
	// derivar status.
	History(ctx context.Context, filter Filter) ([]Entry, error)

	// ListRange devuelve todas las entradas con care day en [from, to]
	// ordenadas asc; lo usa la vista de grilla.
	ListRange(ctx context.Context, from, to careday.Day) ([]Entry, error)

	// OldestDay devuelve el care day más antiguo registrado, si hay.
	OldestDay(ctx context.Context) (careday.Day, bool, error)
}

type Filter struct {
	// TaskIDs limita a un conjunto de tareas (vacío = todas).
	TaskIDs []string
	From    *careday.Day
	To      *careday.Day
	Limit   int
}
