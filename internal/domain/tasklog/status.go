package tasklog

import "time"

// Status es el estado derivado de una tarea para un care day.
// No se persiste: se recalcula en cada lectura plegando el log.
type Status struct {
	Done        bool
	CompletedBy string
	CompletedAt time.Time
}

// statusOf pliega las entradas de un (task, care day) en el status.
// Las entradas deben venir ordenadas asc (timestamp, seq): manda la
// última acción, lo que resuelve bien completar → deshacer → completar.
func statusOf(entries []Entry) Status {
	if len(entries) == 0 {
		return Status{}
	}

	last := entries[len(entries)-1]
	if last.Action != ActionCompleted {
		return Status{}
	}

	return Status{
		Done:        true,
		CompletedBy: last.CompletedBy,
		CompletedAt: last.Timestamp,
	}
}
