package tasks

import "context"

type Repository interface {
	Create(ctx context.Context, item CareItem) error
	GetByID(ctx context.Context, id string) (CareItem, error)
	// ListByPet devuelve los items ordenados por display_order asc y
	// luego created_at asc. includeInactive=false filtra soft-deleted.
	ListByPet(ctx context.Context, petID string, includeInactive bool) ([]CareItem, error)
	Deactivate(ctx context.Context, id string) error
}
