package timers

import "time"

// Phase es el estado observable del timer. "ready" no se persiste
// nunca: es un cómputo de lectura sobre EndsAt, y solo un clear
// explícito vuelve a idle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhaseReady   Phase = "ready"
)

// State es el timer de una mascota. Hay a lo sumo uno por mascota:
// setear uno nuevo reemplaza el anterior sin preguntar (last writer
// wins, documentado como carrera aceptada: el timer es una ayuda de UI,
// no un lock de seguridad).
type State struct {
	PetID string

	// EndsAt nil significa sin timer.
	EndsAt *time.Time
	Label  string

	// AlertSent evita re-alertar cada minuto por el mismo vencimiento.
	AlertSent bool
}

func (s State) Phase(now time.Time) Phase {
	if s.EndsAt == nil {
		return PhaseIdle
	}
	if now.Before(*s.EndsAt) {
		return PhaseRunning
	}
	return PhaseReady
}
