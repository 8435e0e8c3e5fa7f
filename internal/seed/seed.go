// Package seed carga los datos iniciales del hogar: la mascota y su
// régimen de cuidado. Es idempotente: si la mascota ya existe no toca
// nada, así que correr el binario dos veces no duplica items.
package seed

import (
	"context"

	"care-tracker/internal/domain/pets"
	"care-tracker/internal/domain/tasks"
	"care-tracker/internal/platform/logger"
)

const petName = "Chessie"

type careItemSeed struct {
	Name         string
	Description  string
	Notes        string
	Category     string
	DisplayOrder int
}

// Las notas son informativas para quien mira el tablero; las reglas de
// timing reales (ayuno, con comida) las maneja el coordinador de
// timers, no este texto.
var regimen = []careItemSeed{
	{
		Name:         "Denamarin",
		Description:  "Liver supplement",
		Notes:        "Give on empty stomach, at least 1 hour before food, and at least 2 hours after food",
		Category:     "medication",
		DisplayOrder: 1,
	},
	{
		Name:         "Ursodiol",
		Description:  "Liver medication (ursodeoxycholic acid)",
		Notes:        "Give with food",
		Category:     "medication",
		DisplayOrder: 2,
	},
	{
		Name:         "Fish Oil",
		Description:  "Omega fatty acid supplement for coat and joints",
		Notes:        "Give with food",
		Category:     "supplement",
		DisplayOrder: 3,
	},
	{
		Name:         "Breakfast",
		Description:  "Morning meal",
		Category:     "food",
		DisplayOrder: 4,
	},
	{
		Name:         "Dinner",
		Description:  "Evening meal",
		Category:     "food",
		DisplayOrder: 5,
	},
	{
		Name:         "Cosequin",
		Description:  "Joint supplement (glucosamine/chondroitin)",
		Notes:        "Give with food",
		Category:     "supplement",
		DisplayOrder: 6,
	},
}

func Run(ctx context.Context, petsSvc *pets.Service, tasksSvc *tasks.Service, log logger.Logger) error {
	existing, err := petsSvc.List(ctx, true)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.Name == petName {
			log.Debug("seed: pet already present, skipping", map[string]any{"pet": petName})
			return nil
		}
	}

	pet, err := petsSvc.Create(ctx, pets.CreateInput{
		Name:    petName,
		Species: "dog",
		Notes:   "Our beloved pup. Requires daily medications and supplements.",
	})
	if err != nil {
		return err
	}

	for _, item := range regimen {
		if _, err := tasksSvc.Create(ctx, pet.ID, tasks.CreateInput{
			Name:         item.Name,
			Description:  item.Description,
			Notes:        item.Notes,
			Category:     item.Category,
			DisplayOrder: item.DisplayOrder,
		}); err != nil {
			return err
		}
	}

	log.Info("seed: created pet with care regimen", map[string]any{
		"pet":   petName,
		"items": len(regimen),
	})
	return nil
}
