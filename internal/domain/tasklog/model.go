package tasklog

import (
	"time"

	"care-tracker/internal/domain/careday"
)

// Entry es un hecho inmutable del log de acciones: alguien completó (o
// des-completó) una tarea en un care day. Nunca se actualiza ni se
// borra; el "undo" es otra entrada, no un borrado. El log es la única
// fuente de verdad del estado diario.
type Entry struct {
	ID string

	// Seq es el orden de inserción asignado por el store (serial,
	// rowid o contador en memoria). Desempata entradas con timestamp
	// idéntico: gana la insertada después.
	Seq int64

	TaskID  string
	CareDay careday.Day
	Action  Action

	CompletedBy string
	Notes       string
	Timestamp   time.Time
}
