package users

import (
	"time"

	"care-tracker/internal/domain/careday"
)

// User es un cuidador del hogar. No hay auth: el nombre identifica a la
// persona para atribuir completados y dirigir alertas.
type User struct {
	ID   string
	Name string

	CreatedAt time.Time
	LastSeen  time.Time

	// Campos de notificación. AlertExpiry nil = sin vencimiento.
	PhoneNumber string
	WantsAlerts bool
	AlertExpiry *careday.Day
}

// Alertable dice si el usuario debería recibir alertas para el care day
// dado: quiere alertas, tiene teléfono y su opt-in no venció.
func (u User) Alertable(day careday.Day) bool {
	if !u.WantsAlerts || u.PhoneNumber == "" {
		return false
	}
	if u.AlertExpiry != nil && u.AlertExpiry.Before(day) {
		return false
	}
	return true
}
