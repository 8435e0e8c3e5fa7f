package notify

import "context"

// Notifier emite los eventos de alerta del hogar. El envío real (SMS,
// push, lo que sea) vive afuera: el core solo dispara el hecho y sigue.
type Notifier interface {
	// TimerExpired: el timer de una mascota llegó a cero.
	TimerExpired(ctx context.Context, petName, label string)

	// NightlyReminder: resumen nocturno de tareas pendientes, una línea
	// por mascota ("Chessie: Dinner, Denamarin").
	NightlyReminder(ctx context.Context, lines []string)

	// CheckInConfirmation: un cuidador activó o actualizó sus alertas.
	CheckInConfirmation(ctx context.Context, userName, phoneNumber string)
}
