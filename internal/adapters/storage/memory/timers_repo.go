package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"care-tracker/internal/domain/timers"
)

type timerRepo struct {
	mu      sync.RWMutex
	byPetID map[string]timers.State
}

func NewTimerRepo() timers.Repository {
	return &timerRepo{
		byPetID: make(map[string]timers.State),
	}
}

func (r *timerRepo) Get(ctx context.Context, petID string) (timers.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.byPetID[petID]
	if !ok {
		// Sin timer = estado idle, no error.
		return timers.State{PetID: petID}, nil
	}
	return st, nil
}

func (r *timerRepo) Set(ctx context.Context, st timers.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(st.PetID) == "" {
		return errors.New("pet id required")
	}
	// Reemplazo incondicional: last writer wins.
	r.byPetID[st.PetID] = st
	return nil
}

func (r *timerRepo) Clear(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byPetID, petID)
	return nil
}

func (r *timerRepo) ListActive(ctx context.Context) ([]timers.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]timers.State, 0, len(r.byPetID))
	for _, st := range r.byPetID {
		if st.EndsAt == nil {
			continue
		}
		out = append(out, st)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].PetID < out[j].PetID
	})
	return out, nil
}

func (r *timerRepo) MarkAlerted(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.byPetID[petID]
	if !ok {
		return ErrNotFound
	}
	st.AlertSent = true
	r.byPetID[petID] = st
	return nil
}
