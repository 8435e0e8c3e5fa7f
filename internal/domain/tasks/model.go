package tasks

import "time"

// CareItem es una tarea recurrente de cuidado asociada a una mascota:
// una medicación, una comida, un suplemento.
//
// Notes lleva texto libre de timing/dependencias ("dar con el estómago
// vacío, 1 hora antes de comer"). Es solo informativo: en esta versión
// no hay motor de reglas que lo haga cumplir.
type CareItem struct {
	ID    string
	PetID string

	Name        string
	Description string
	Notes       string
	Category    Category

	DisplayOrder int

	CreatedAt time.Time
	Active    bool
}
