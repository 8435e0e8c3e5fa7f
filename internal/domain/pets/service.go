package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Species string
	Notes   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}

	species := Species(strings.TrimSpace(in.Species))
	if species == "" {
		species = SpeciesOther
	}

	p := Pet{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Species:   species,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now(),
		Active:    true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]Pet, error) {
	return s.repo.List(ctx, includeInactive)
}

// Deactivate hace soft delete: la mascota deja de aparecer en el tablero
// pero sus logs siguen consultables en el historial.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Deactivate(ctx, id)
}
