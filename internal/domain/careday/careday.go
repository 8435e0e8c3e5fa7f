package careday

import (
	"errors"
	"time"
)

// DefaultBoundaryHour es la hora local en la que arranca un nuevo care day.
// 4 AM: lo que pasa a las 3:59 todavía cuenta para el día anterior.
const DefaultBoundaryHour = 4

const layout = "2006-01-02"

var ErrInvalidDay = errors.New("invalid care day")

// Day es un care day lógico (solo fecha, sin hora).
// Se serializa como YYYY-MM-DD, útil como key de mapa y columna DATE.
type Day string

func (d Day) String() string { return string(d) }

// Time devuelve la medianoche UTC del día; útil para comparar/ordenar.
func (d Day) Time() (time.Time, error) {
	t, err := time.Parse(layout, string(d))
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return t, nil
}

func (d Day) Before(other Day) bool { return string(d) < string(other) }

// Add devuelve el día desplazado n días (n puede ser negativo).
func (d Day) Add(n int) Day {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return Day(t.AddDate(0, 0, n).Format(layout))
}

// Parse valida y normaliza un care day en formato YYYY-MM-DD.
func Parse(s string) (Day, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", ErrInvalidDay
	}
	return Day(t.Format(layout)), nil
}

// Resolver mapea instantes al care day lógico del hogar.
// Es puro: mismo (instante, boundary, zona) => mismo día.
type Resolver struct {
	BoundaryHour int
	Location     *time.Location

	now func() time.Time
}

func NewResolver(boundaryHour int, loc *time.Location) *Resolver {
	if boundaryHour < 0 || boundaryHour > 23 {
		boundaryHour = DefaultBoundaryHour
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{
		BoundaryHour: boundaryHour,
		Location:     loc,
		now:          time.Now,
	}
}

// At devuelve el care day al que pertenece el instante t.
// Antes de la hora de corte cuenta como el día anterior; la hora exacta
// de corte (04:00:00.000) ya es el día nuevo.
func (r *Resolver) At(t time.Time) Day {
	local := t.In(r.Location)
	if local.Hour() < r.BoundaryHour {
		local = local.AddDate(0, 0, -1)
	}
	return Day(local.Format(layout))
}

// Today es el care day actual según el reloj inyectado.
func (r *Resolver) Today() Day {
	return r.At(r.now())
}

// Bounds devuelve [inicio, fin) del care day en la zona del hogar:
// desde la hora de corte del día hasta la hora de corte del siguiente.
func (r *Resolver) Bounds(d Day) (time.Time, time.Time, error) {
	t, err := d.Time()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), r.BoundaryHour, 0, 0, 0, r.Location)
	return start, start.AddDate(0, 0, 1), nil
}
