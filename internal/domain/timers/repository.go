package timers

import "context"

type Repository interface {
	// Get devuelve el timer de la mascota; si no hay, un State idle
	// (EndsAt nil), nunca error por ausencia.
	Get(ctx context.Context, petID string) (State, error)

	// Set reemplaza incondicionalmente el timer de la mascota (upsert
	// en una sola escritura).
	Set(ctx context.Context, st State) error

	// Clear borra el timer si existe; no-op si no hay.
	Clear(ctx context.Context, petID string) error

	// ListActive devuelve todos los timers con EndsAt seteado.
	ListActive(ctx context.Context) ([]State, error)

	// MarkAlerted marca AlertSent del timer de la mascota.
	MarkAlerted(ctx context.Context, petID string) error
}
