package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"care-tracker/internal/domain/pets"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPetNotFound  = errors.New("pet not found")
)

type Service struct {
	repo    Repository
	petsSvc *pets.Service
	now     func() time.Time
}

func NewService(repo Repository, petsSvc *pets.Service) *Service {
	return &Service{
		repo:    repo,
		petsSvc: petsSvc,
		now:     time.Now,
	}
}

type CreateInput struct {
	Name         string
	Description  string
	Notes        string
	Category     string
	DisplayOrder int
}

func (s *Service) Create(ctx context.Context, petID string, in CreateInput) (CareItem, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || strings.TrimSpace(in.Name) == "" {
		return CareItem{}, ErrInvalidInput
	}

	// La mascota debe existir; un item colgando de un pet fantasma
	// rompería el tablero diario.
	if _, err := s.petsSvc.GetByID(ctx, petID); err != nil {
		return CareItem{}, ErrPetNotFound
	}

	cat := Category(strings.TrimSpace(in.Category))
	if cat == "" {
		cat = CategoryOther
	}

	item := CareItem{
		ID:           uuid.NewString(),
		PetID:        petID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Notes:        strings.TrimSpace(in.Notes),
		Category:     cat,
		DisplayOrder: in.DisplayOrder,
		CreatedAt:    s.now(),
		Active:       true,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return CareItem{}, err
	}
	return item, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (CareItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CareItem{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string, includeInactive bool) ([]CareItem, error) {
	return s.repo.ListByPet(ctx, petID, includeInactive)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Deactivate(ctx, id)
}
