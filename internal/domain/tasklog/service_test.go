package tasklog

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"care-tracker/internal/domain/careday"
	"care-tracker/internal/domain/pets"
	"care-tracker/internal/domain/tasks"
)

type fakePetRepo struct {
	m map[string]pets.Pet
}

func (f *fakePetRepo) Create(ctx context.Context, p pets.Pet) error {
	f.m[p.ID] = p
	return nil
}

func (f *fakePetRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	p, ok := f.m[id]
	if !ok {
		return pets.Pet{}, errors.New("not found")
	}
	return p, nil
}

func (f *fakePetRepo) List(ctx context.Context, includeInactive bool) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0, len(f.m))
	for _, p := range f.m {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePetRepo) Deactivate(ctx context.Context, id string) error {
	p := f.m[id]
	p.Active = false
	f.m[id] = p
	return nil
}

type fakeTaskRepo struct {
	m map[string]tasks.CareItem
}

func (f *fakeTaskRepo) Create(ctx context.Context, item tasks.CareItem) error {
	f.m[item.ID] = item
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (tasks.CareItem, error) {
	item, ok := f.m[id]
	if !ok {
		return tasks.CareItem{}, errors.New("not found")
	}
	return item, nil
}

func (f *fakeTaskRepo) ListByPet(ctx context.Context, petID string, includeInactive bool) ([]tasks.CareItem, error) {
	out := make([]tasks.CareItem, 0)
	for _, item := range f.m {
		if item.PetID != petID {
			continue
		}
		if !includeInactive && !item.Active {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (f *fakeTaskRepo) Deactivate(ctx context.Context, id string) error {
	item := f.m[id]
	item.Active = false
	f.m[id] = item
	return nil
}

type fakeLogRepo struct {
	entries []Entry
	nextSeq int64
}

func (f *fakeLogRepo) Append(ctx context.Context, e Entry) (Entry, error) {
	f.nextSeq++
	e.Seq = f.nextSeq
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeLogRepo) ListForDay(ctx context.Context, taskID string, day careday.Day) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range f.entries {
		if e.TaskID == taskID && e.CareDay == day {
			out = append(out, e)
		}
	}
	sortEntriesAsc(out)
	return out, nil
}

func (f *fakeLogRepo) History(ctx context.Context, filter Filter) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range f.entries {
		if len(filter.TaskIDs) > 0 && !containsID(filter.TaskIDs, e.TaskID) {
			continue
		}
		if filter.From != nil && e.CareDay.Before(*filter.From) {
			continue
		}
		if filter.To != nil && filter.To.Before(e.CareDay) {
			continue
		}
		out = append(out, e)
	}
	sortEntriesAsc(out)
	// desc para historial
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeLogRepo) ListRange(ctx context.Context, from, to careday.Day) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range f.entries {
		if e.CareDay.Before(from) || to.Before(e.CareDay) {
			continue
		}
		out = append(out, e)
	}
	sortEntriesAsc(out)
	return out, nil
}

func (f *fakeLogRepo) OldestDay(ctx context.Context) (careday.Day, bool, error) {
	if len(f.entries) == 0 {
		return "", false, nil
	}
	oldest := f.entries[0].CareDay
	for _, e := range f.entries {
		if e.CareDay.Before(oldest) {
			oldest = e.CareDay
		}
	}
	return oldest, true, nil
}

func sortEntriesAsc(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fixture struct {
	svc    *Service
	logs   *fakeLogRepo
	petID  string
	taskID string
	setNow func(time.Time)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	petRepo := &fakePetRepo{m: map[string]pets.Pet{
		"pet-1": {ID: "pet-1", Name: "Chessie", CreatedAt: created, Active: true},
	}}
	taskRepo := &fakeTaskRepo{m: map[string]tasks.CareItem{
		"task-1": {ID: "task-1", PetID: "pet-1", Name: "Denamarin", Category: tasks.CategoryMedication, DisplayOrder: 1, CreatedAt: created, Active: true},
	}}
	logRepo := &fakeLogRepo{}

	petsSvc := pets.NewService(petRepo)
	tasksSvc := tasks.NewService(taskRepo, petsSvc)

	// Corte 4 AM en UTC para que las fechas del test sean literales.
	days := careday.NewResolver(4, time.UTC)
	svc := NewService(logRepo, tasksSvc, petsSvc, days)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:    svc,
		logs:   logRepo,
		petID:  "pet-1",
		taskID: "task-1",
		setNow: func(t time.Time) {
			now = t
			svc.now = func() time.Time { return now }
		},
	}
}

func TestComplete_MarksTaskDoneForToday(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	res, err := fx.svc.Complete(ctx, fx.taskID, "Maria", "with food")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if res.Entry.CareDay != careday.Day("2026-08-29") {
		t.Fatalf("expected care day 2026-08-29, got %s", res.Entry.CareDay)
	}
	if !res.Status.Done || res.Status.CompletedBy != "Maria" {
		t.Fatalf("unexpected status: %+v", res.Status)
	}
	if res.Entry.Notes != "with food" {
		t.Fatalf("expected notes preserved, got %q", res.Entry.Notes)
	}
}

func TestComplete_UnknownTask(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.svc.Complete(context.Background(), "ghost", "", ""); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
}

func TestComplete_TwiceAppendsWithoutChangingStatus(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Complete(ctx, fx.taskID, "Maria", ""); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	res, err := fx.svc.Complete(ctx, fx.taskID, "Jon", "")
	if err != nil {
		t.Fatalf("re-complete should be allowed: %v", err)
	}

	if len(fx.logs.entries) != 2 {
		t.Fatalf("expected both completions logged, got %d", len(fx.logs.entries))
	}
	if !res.Status.Done {
		t.Fatal("expected still done after re-complete")
	}
	// La última entrada manda en la atribución.
	if res.Status.CompletedBy != "Jon" {
		t.Fatalf("expected last completion attributed, got %q", res.Status.CompletedBy)
	}
}

func TestUndo_FailsWhenNotDone(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.svc.Undo(context.Background(), fx.taskID, "", ""); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
	if len(fx.logs.entries) != 0 {
		t.Fatalf("failed undo must not append, got %d entries", len(fx.logs.entries))
	}
}

func TestUndo_LastActionWins(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	fx.setNow(base)
	if _, err := fx.svc.Complete(ctx, fx.taskID, "Maria", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	fx.setNow(base.Add(time.Minute))
	res, err := fx.svc.Undo(ctx, fx.taskID, "Maria", "gave it too early")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if res.Status.Done {
		t.Fatal("expected pending after undo")
	}

	// Completar de nuevo tras el undo vuelve a done.
	fx.setNow(base.Add(2 * time.Minute))
	res, err = fx.svc.Complete(ctx, fx.taskID, "Jon", "")
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if !res.Status.Done || res.Status.CompletedBy != "Jon" {
		t.Fatalf("unexpected status after re-complete: %+v", res.Status)
	}

	// Las tres acciones quedan en el log; nada se borra.
	if len(fx.logs.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(fx.logs.entries))
	}
}

func TestStatus_TieBreakBySeq(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// Mismo timestamp para ambas acciones: el orden de inserción (seq)
	// decide, y la última es el undo.
	if _, err := fx.svc.Complete(ctx, fx.taskID, "Maria", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	res, err := fx.svc.Undo(ctx, fx.taskID, "Maria", "")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if res.Status.Done {
		t.Fatal("expected undo to win the same-timestamp tie")
	}
}

func TestCareDayBoundary_EarlyMorningCountsAsPreviousDay(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// 23:00 del día 28: care day 2026-08-28.
	fx.setNow(time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC))
	res, err := fx.svc.Complete(ctx, fx.taskID, "Maria", "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Entry.CareDay != careday.Day("2026-08-28") {
		t.Fatalf("expected care day 2026-08-28, got %s", res.Entry.CareDay)
	}

	// 2:30 de la madrugada siguiente: sigue siendo el care day del 28,
	// así que la tarea sigue completa y el undo la encuentra.
	fx.setNow(time.Date(2026, 8, 29, 2, 30, 0, 0, time.UTC))
	statuses, err := fx.svc.StatusAt(ctx, fx.petID, fx.svc.now())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !statuses[fx.taskID].Done {
		t.Fatal("expected task still done before the 4 AM boundary")
	}

	// 4:00 en punto: care day nuevo, tablero limpio.
	fx.setNow(time.Date(2026, 8, 29, 4, 0, 0, 0, time.UTC))
	statuses, err = fx.svc.StatusAt(ctx, fx.petID, fx.svc.now())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if statuses[fx.taskID].Done {
		t.Fatal("expected fresh board at the 4 AM boundary")
	}
	if _, err := fx.svc.Undo(ctx, fx.taskID, "", ""); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo on the new care day, got %v", err)
	}
}

func TestDoneByName_ProjectsStatusByTaskName(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.logs.entries = nil
	if _, err := fx.svc.Complete(ctx, fx.taskID, "", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	done, err := fx.svc.DoneByName(ctx, fx.petID, fx.svc.Today())
	if err != nil {
		t.Fatalf("done by name: %v", err)
	}
	if !done["Denamarin"] {
		t.Fatalf("expected Denamarin done, got %v", done)
	}
}

func TestHistory_FiltersByPetIncludingInactiveItems(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Complete(ctx, fx.taskID, "Maria", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Desactivar el item no borra su historial.
	if err := fx.svc.tasksSvc.Deactivate(ctx, fx.taskID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	entries, err := fx.svc.History(ctx, HistoryInput{PetID: fx.petID})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 || entries[0].TaskID != fx.taskID {
		t.Fatalf("expected inactive item's history, got %+v", entries)
	}
}

func TestGrid_MarksGivenMissedAndNA(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	fx.setNow(today)
	if _, err := fx.svc.Complete(ctx, fx.taskID, "Maria", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	grid, err := fx.svc.Grid(ctx, 1, 40)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}

	if len(grid.Columns) != 1 || grid.Columns[0].ItemID != fx.taskID {
		t.Fatalf("unexpected columns: %+v", grid.Columns)
	}
	if len(grid.Rows) != 40 {
		t.Fatalf("expected 40 rows, got %d", len(grid.Rows))
	}

	// Hoy: given. Ayer: missed. Antes de crear el item (1 de agosto): n/a.
	if grid.Rows[0].Date != careday.Day("2026-08-29") {
		t.Fatalf("expected newest row first, got %s", grid.Rows[0].Date)
	}
	if grid.Rows[0].Values[fx.taskID] != GridGiven {
		t.Fatalf("expected given today, got %s", grid.Rows[0].Values[fx.taskID])
	}
	if grid.Rows[1].Values[fx.taskID] != GridMissed {
		t.Fatalf("expected missed yesterday, got %s", grid.Rows[1].Values[fx.taskID])
	}
	last := grid.Rows[len(grid.Rows)-1]
	if last.Values[fx.taskID] != GridNA {
		t.Fatalf("expected n/a before item creation, got %s on %s", last.Values[fx.taskID], last.Date)
	}
	if grid.HasPrev {
		t.Fatal("first page must not have prev")
	}
}
