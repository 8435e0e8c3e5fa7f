package timers

import (
	"context"
	"errors"
	"strings"
	"time"

	"care-tracker/internal/domain/pets"
	"care-tracker/internal/ports/notify"
	"care-tracker/internal/ports/statuslight"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPetNotFound  = errors.New("pet not found")
)

type Service struct {
	repo     Repository
	petsSvc  *pets.Service
	notifier notify.Notifier
	light    statuslight.Trigger
	now      func() time.Time
}

func NewService(repo Repository, petsSvc *pets.Service, notifier notify.Notifier, light statuslight.Trigger) *Service {
	return &Service{
		repo:     repo,
		petsSvc:  petsSvc,
		notifier: notifier,
		light:    light,
		now:      time.Now,
	}
}

// Set arranca (o reemplaza) el timer de la mascota: end = now + hours.
// Si había uno corriendo, muere en silencio; no hay merge ni stacking.
func (s *Service) Set(ctx context.Context, petID string, hours float64, label string) (State, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || strings.TrimSpace(label) == "" {
		return State{}, ErrInvalidInput
	}
	if _, err := s.petsSvc.GetByID(ctx, petID); err != nil {
		return State{}, ErrPetNotFound
	}

	end := s.now().Add(time.Duration(hours * float64(time.Hour)))
	st := State{
		PetID:  petID,
		EndsAt: &end,
		Label:  strings.TrimSpace(label),
	}

	if err := s.repo.Set(ctx, st); err != nil {
		return State{}, err
	}

	s.syncLight(ctx)
	return st, nil
}

// Clear apaga el timer de la mascota. Es idempotente: limpiar donde no
// hay timer no es un error.
func (s *Service) Clear(ctx context.Context, petID string) error {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return ErrInvalidInput
	}
	if _, err := s.petsSvc.GetByID(ctx, petID); err != nil {
		return ErrPetNotFound
	}

	if err := s.repo.Clear(ctx, petID); err != nil {
		return err
	}

	s.syncLight(ctx)
	return nil
}

func (s *Service) Get(ctx context.Context, petID string) (State, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return State{}, ErrInvalidInput
	}
	if _, err := s.petsSvc.GetByID(ctx, petID); err != nil {
		return State{}, ErrPetNotFound
	}
	return s.repo.Get(ctx, petID)
}

// Now expone el reloj del servicio para que los handlers calculen la
// Phase con el mismo ahora que el resto de la lógica.
func (s *Service) Now() time.Time {
	return s.now()
}

// SweepExpired recorre los timers vencidos que todavía no alertaron,
// dispara la notificación y los marca. El timer NO se limpia: queda en
// "ready" en la UI hasta que alguien lo apague.
func (s *Service) SweepExpired(ctx context.Context) error {
	states, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	fired := false
	for _, st := range states {
		if st.Phase(now) != PhaseReady || st.AlertSent {
			continue
		}

		petName := st.PetID
		if p, err := s.petsSvc.GetByID(ctx, st.PetID); err == nil {
			petName = p.Name
		}
		s.notifier.TimerExpired(ctx, petName, st.Label)

		if err := s.repo.MarkAlerted(ctx, st.PetID); err != nil {
			return err
		}
		fired = true
	}

	if fired {
		s.syncLight(ctx)
	}
	return nil
}

// DailyReset limpia los timers que ya vencieron Y ya alertaron; corre
// una vez por día en el corte del care day. Devuelve cuántos limpió.
func (s *Service) DailyReset(ctx context.Context) (int, error) {
	states, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	cleared := 0
	for _, st := range states {
		if st.Phase(now) != PhaseReady || !st.AlertSent {
			continue
		}
		if err := s.repo.Clear(ctx, st.PetID); err != nil {
			return cleared, err
		}
		cleared++
	}

	if cleared > 0 {
		s.syncLight(ctx)
	}
	return cleared, nil
}

// syncLight empuja el estado agregado de los timers a la luz física.
// Prioridad: vencido > corriendo > nada. Best effort: un fallo acá no
// voltea la operación que lo disparó.
func (s *Service) syncLight(ctx context.Context) {
	states, err := s.repo.ListActive(ctx)
	if err != nil {
		return
	}

	now := s.now()
	running := false
	for _, st := range states {
		switch st.Phase(now) {
		case PhaseReady:
			_ = s.light.Expired(ctx)
			return
		case PhaseRunning:
			running = true
		}
	}

	if running {
		_ = s.light.Running(ctx)
		return
	}
	_ = s.light.Clear(ctx)
}
