package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// GetByName busca por nombre exacto (el nombre es único).
	GetByName(ctx context.Context, name string) (User, error)
	// Search devuelve usuarios cuyo nombre empieza con el prefijo,
	// ordenados por nombre; prefijo vacío = todos.
	Search(ctx context.Context, prefix string) ([]User, error)
}
