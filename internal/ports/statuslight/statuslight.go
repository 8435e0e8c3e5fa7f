package statuslight

import "context"

// Trigger maneja la luz de estado física del hogar (LED del switch).
// Prioridad de estados: Expired > Running > Clear.
type Trigger interface {
	// Expired: hay al menos un timer vencido (pulso verde).
	Expired(ctx context.Context) error
	// Running: hay timers corriendo y ninguno vencido (amarillo fijo).
	Running(ctx context.Context) error
	// Clear: no hay timers.
	Clear(ctx context.Context) error
}
