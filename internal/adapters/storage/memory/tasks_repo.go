package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"care-tracker/internal/domain/tasks"
)

type taskRepo struct {
	mu   sync.RWMutex
	byID map[string]tasks.CareItem
}

func NewTaskRepo() tasks.Repository {
	return &taskRepo{
		byID: make(map[string]tasks.CareItem),
	}
}

func (r *taskRepo) Create(ctx context.Context, item tasks.CareItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(item.ID) == "" {
		return errors.New("care item id required")
	}
	if _, exists := r.byID[item.ID]; exists {
		return errors.New("care item already exists")
	}
	r.byID[item.ID] = item
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (tasks.CareItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return tasks.CareItem{}, ErrNotFound
	}
	return item, nil
}

func (r *taskRepo) ListByPet(ctx context.Context, petID string, includeInactive bool) ([]tasks.CareItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tasks.CareItem, 0)
	for _, item := range r.byID {
		if item.PetID != petID {
			continue
		}
		if !includeInactive && !item.Active {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *taskRepo) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	item.Active = false
	r.byID[id] = item
	return nil
}
