package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"care-tracker/internal/domain/careday"
	"care-tracker/internal/domain/tasklog"
)

type taskLogRepo struct {
	mu sync.RWMutex
	// entries en orden de inserción; nunca se muta ni se borra una
	// entrada (append-only por contrato).
	entries []tasklog.Entry
	nextSeq int64
}

func NewTaskLogRepo() tasklog.Repository {
	return &taskLogRepo{
		entries: make([]tasklog.Entry, 0),
		nextSeq: 1,
	}
}

func (r *taskLogRepo) Append(ctx context.Context, e tasklog.Entry) (tasklog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return tasklog.Entry{}, errors.New("entry id required")
	}

	e.Seq = r.nextSeq
	r.nextSeq++
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *taskLogRepo) ListForDay(ctx context.Context, taskID string, day careday.Day) ([]tasklog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tasklog.Entry, 0)
	for _, e := range r.entries {
		if e.TaskID == taskID && e.CareDay == day {
			out = append(out, e)
		}
	}

	sortAsc(out)
	return out, nil
}

func (r *taskLogRepo) History(ctx context.Context, filter tasklog.Filter) ([]tasklog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var wanted map[string]struct{}
	if len(filter.TaskIDs) > 0 {
		wanted = make(map[string]struct{}, len(filter.TaskIDs))
		for _, id := range filter.TaskIDs {
			wanted[id] = struct{}{}
		}
	}

	out := make([]tasklog.Entry, 0)
	for _, e := range r.entries {
		if wanted != nil {
			if _, ok := wanted[e.TaskID]; !ok {
				continue
			}
		}
		if filter.From != nil && e.CareDay.Before(*filter.From) {
			continue
		}
		if filter.To != nil && filter.To.Before(e.CareDay) {
			continue
		}
		out = append(out, e)
	}

	// Más reciente primero; empates por seq desc (orden de inserción).
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Seq > out[j].Seq
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *taskLogRepo) ListRange(ctx context.Context, from, to careday.Day) ([]tasklog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tasklog.Entry, 0)
	for _, e := range r.entries {
		if e.CareDay.Before(from) || to.Before(e.CareDay) {
			continue
		}
		out = append(out, e)
	}

	sortAsc(out)
	return out, nil
}

func (r *taskLogRepo) OldestDay(ctx context.Context) (careday.Day, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return "", false, nil
	}

	oldest := r.entries[0].CareDay
	for _, e := range r.entries[1:] {
		if e.CareDay.Before(oldest) {
			oldest = e.CareDay
		}
	}
	return oldest, true, nil
}

func sortAsc(entries []tasklog.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].Seq < entries[j].Seq
	})
}
