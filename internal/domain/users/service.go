package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"care-tracker/internal/domain/careday"
	"care-tracker/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
)

type Service struct {
	repo     Repository
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier notify.Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

type CheckInInput struct {
	Name        string
	PhoneNumber string
	WantsAlerts bool
	AlertExpiry *careday.Day
}

// CheckIn registra presencia: crea el usuario si no existe, o actualiza
// last_seen y preferencias si ya está. Devuelve además si fue alta
// nueva. Un alta con alertas activadas dispara la confirmación.
func (s *Service) CheckIn(ctx context.Context, in CheckInInput) (User, bool, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return User{}, false, ErrInvalidInput
	}

	now := s.now()

	existing, err := s.repo.GetByName(ctx, name)
	if err == nil {
		existing.LastSeen = now
		if strings.TrimSpace(in.PhoneNumber) != "" {
			existing.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
		}
		existing.WantsAlerts = in.WantsAlerts
		existing.AlertExpiry = in.AlertExpiry

		if err := s.repo.Update(ctx, existing); err != nil {
			return User{}, false, err
		}
		return existing, false, nil
	}

	u := User{
		ID:          uuid.NewString(),
		Name:        name,
		CreatedAt:   now,
		LastSeen:    now,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		WantsAlerts: in.WantsAlerts,
		AlertExpiry: in.AlertExpiry,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, false, err
	}

	if u.WantsAlerts && u.PhoneNumber != "" {
		s.notifier.CheckInConfirmation(ctx, u.Name, u.PhoneNumber)
	}

	return u, true, nil
}

type UpdateInput struct {
	PhoneNumber *string
	WantsAlerts *bool
	AlertExpiry *careday.Day
	// ClearAlertExpiry distingue "no tocar" de "limpiar vencimiento".
	ClearAlertExpiry bool
}

// Update modifica preferencias de notificación. Cada guardado con
// alertas activas re-dispara la confirmación (pedido explícito: que el
// SMS llegue en cada save, no solo en el alta).
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, ErrNotFound
	}

	if in.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.WantsAlerts != nil {
		u.WantsAlerts = *in.WantsAlerts
	}
	if in.ClearAlertExpiry {
		u.AlertExpiry = nil
	} else if in.AlertExpiry != nil {
		u.AlertExpiry = in.AlertExpiry
	}
	u.LastSeen = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}

	if u.WantsAlerts && u.PhoneNumber != "" {
		s.notifier.CheckInConfirmation(ctx, u.Name, u.PhoneNumber)
	}

	return u, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, ErrInvalidInput
	}
	u, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) Search(ctx context.Context, prefix string) ([]User, error) {
	return s.repo.Search(ctx, strings.TrimSpace(prefix))
}

// ListAlertable devuelve los usuarios que deberían recibir alertas hoy.
func (s *Service) ListAlertable(ctx context.Context, day careday.Day) ([]User, error) {
	all, err := s.repo.Search(ctx, "")
	if err != nil {
		return nil, err
	}

	out := make([]User, 0, len(all))
	for _, u := range all {
		if u.Alertable(day) {
			out = append(out, u)
		}
	}
	return out, nil
}
