package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	// List devuelve mascotas ordenadas por created_at asc.
	// includeInactive=false filtra las soft-deleted.
	List(ctx context.Context, includeInactive bool) ([]Pet, error)
	Deactivate(ctx context.Context, id string) error
}
