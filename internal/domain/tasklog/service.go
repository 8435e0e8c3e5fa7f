package tasklog

import (
	"context"
	"errors"
	"strings"
	"time"

	"care-tracker/internal/domain/careday"
	"care-tracker/internal/domain/pets"
	"care-tracker/internal/domain/tasks"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownTask: el task id referenciado no existe. Se permite
	// loguear contra tareas inactivas (integridad del historial), pero
	// nunca contra ids desconocidos.
	ErrUnknownTask = errors.New("unknown task")

	// ErrNothingToUndo: undo sobre una tarea que no está completada hoy.
	// Es una guarda de usabilidad, no de integridad: el log toleraría la
	// entrada, pero sería ruido.
	ErrNothingToUndo = errors.New("nothing to undo")
)

type Service struct {
	repo     Repository
	tasksSvc *tasks.Service
	petsSvc  *pets.Service
	days     *careday.Resolver
	now      func() time.Time
}

func NewService(repo Repository, tasksSvc *tasks.Service, petsSvc *pets.Service, days *careday.Resolver) *Service {
	return &Service{
		repo:     repo,
		tasksSvc: tasksSvc,
		petsSvc:  petsSvc,
		days:     days,
		now:      time.Now,
	}
}

// Result es lo que devuelven Complete/Undo: la entrada apendeada y el
// status recalculado de la tarea para el care day de hoy.
type Result struct {
	Entry  Entry
	Task   tasks.CareItem
	Status Status
}

// Complete marca la tarea como hecha para el care day actual.
//
// Completar algo que ya estaba completo está permitido y apendea otra
// entrada: el status no cambia (idempotente a ese nivel) pero el log
// registra quién re-confirmó. El care day se calcula siempre del lado
// del servidor; nunca se acepta una fecha del cliente.
func (s *Service) Complete(ctx context.Context, taskID, actor, notes string) (Result, error) {
	return s.append(ctx, taskID, ActionCompleted, actor, notes)
}

// Undo revierte una tarea completada para el care day actual. Falla con
// ErrNothingToUndo si la tarea no está completa hoy.
func (s *Service) Undo(ctx context.Context, taskID, actor, notes string) (Result, error) {
	return s.append(ctx, taskID, ActionUndone, actor, notes)
}

func (s *Service) append(ctx context.Context, taskID string, action Action, actor, notes string) (Result, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return Result{}, ErrInvalidInput
	}

	item, err := s.tasksSvc.GetByID(ctx, taskID)
	if err != nil {
		return Result{}, ErrUnknownTask
	}

	now := s.now()
	day := s.days.At(now)

	if action == ActionUndone {
		entries, err := s.repo.ListForDay(ctx, taskID, day)
		if err != nil {
			return Result{}, err
		}
		if !statusOf(entries).Done {
			return Result{}, ErrNothingToUndo
		}
	}

	stored, err := s.repo.Append(ctx, Entry{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		CareDay:     day,
		Action:      action,
		CompletedBy: strings.TrimSpace(actor),
		Notes:       strings.TrimSpace(notes),
		Timestamp:   now,
	})
	if err != nil {
		return Result{}, err
	}

	entries, err := s.repo.ListForDay(ctx, taskID, day)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Entry:  stored,
		Task:   item,
		Status: statusOf(entries),
	}, nil
}

// StatusForDay deriva el status de todas las tareas activas de la
// mascota para el care day dado. Lectura pura sobre el log: si una
// entrada aterriza en el medio, la próxima lectura la refleja.
func (s *Service) StatusForDay(ctx context.Context, petID string, day careday.Day) (map[string]Status, error) {
	items, err := s.tasksSvc.ListByPet(ctx, petID, false)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Status, len(items))
	for _, item := range items {
		entries, err := s.repo.ListForDay(ctx, item.ID, day)
		if err != nil {
			return nil, err
		}
		out[item.ID] = statusOf(entries)
	}
	return out, nil
}

// StatusAt es StatusForDay con el care day resuelto a partir de un
// instante (por defecto, el ahora del reloj inyectado).
func (s *Service) StatusAt(ctx context.Context, petID string, at time.Time) (map[string]Status, error) {
	if at.IsZero() {
		at = s.now()
	}
	return s.StatusForDay(ctx, petID, s.days.At(at))
}

// DoneByName proyecta el status del día a un mapa nombre de tarea ->
// done. Es la entrada del coordinador de timers, que razona por nombre
// y no conoce ids ni storage.
func (s *Service) DoneByName(ctx context.Context, petID string, day careday.Day) (map[string]bool, error) {
	items, err := s.tasksSvc.ListByPet(ctx, petID, false)
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(items))
	for _, item := range items {
		entries, err := s.repo.ListForDay(ctx, item.ID, day)
		if err != nil {
			return nil, err
		}
		out[item.Name] = statusOf(entries).Done
	}
	return out, nil
}

// TaskStatus combina el care item con su status derivado.
type TaskStatus struct {
	Item   tasks.CareItem
	Status Status
}

// PetDay es el resumen diario de una mascota: sus tareas activas con el
// estado de cada una.
type PetDay struct {
	Pet     pets.Pet
	CareDay careday.Day
	Tasks   []TaskStatus
}

// Summary arma el tablero del día para todas las mascotas activas.
func (s *Service) Summary(ctx context.Context, day careday.Day) ([]PetDay, error) {
	allPets, err := s.petsSvc.List(ctx, false)
	if err != nil {
		return nil, err
	}

	out := make([]PetDay, 0, len(allPets))
	for _, p := range allPets {
		items, err := s.tasksSvc.ListByPet(ctx, p.ID, false)
		if err != nil {
			return nil, err
		}

		statuses := make([]TaskStatus, 0, len(items))
		for _, item := range items {
			entries, err := s.repo.ListForDay(ctx, item.ID, day)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, TaskStatus{Item: item, Status: statusOf(entries)})
		}

		out = append(out, PetDay{Pet: p, CareDay: day, Tasks: statuses})
	}
	return out, nil
}

// Today expone el care day actual del resolver (para handlers e info).
func (s *Service) Today() careday.Day {
	return s.days.At(s.now())
}

type HistoryInput struct {
	PetID  string
	TaskID string
	From   *careday.Day
	To     *careday.Day
	Limit  int
}

// History devuelve entradas del log para auditoría, lo más reciente
// primero. El filtro por mascota se resuelve acá (pet -> task ids,
// incluyendo inactivas: el historial no olvida).
func (s *Service) History(ctx context.Context, in HistoryInput) ([]Entry, error) {
	filter := Filter{From: in.From, To: in.To, Limit: in.Limit}

	switch {
	case strings.TrimSpace(in.TaskID) != "":
		filter.TaskIDs = []string{strings.TrimSpace(in.TaskID)}
	case strings.TrimSpace(in.PetID) != "":
		items, err := s.tasksSvc.ListByPet(ctx, strings.TrimSpace(in.PetID), true)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return []Entry{}, nil
		}
		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ID)
		}
		filter.TaskIDs = ids
	}

	return s.repo.History(ctx, filter)
}
