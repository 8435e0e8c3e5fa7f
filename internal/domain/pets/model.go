package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, bird, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesBird  Species = "bird"
	SpeciesOther Species = "other"
)

// Pet representa una mascota del hogar.
// Active implementa soft delete: una mascota inactiva sale del tablero
// diario pero su historial se conserva intacto.
type Pet struct {
	ID      string
	Name    string
	Species Species
	Notes   string

	CreatedAt time.Time
	Active    bool
}
