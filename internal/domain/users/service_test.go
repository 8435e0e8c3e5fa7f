package users

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"care-tracker/internal/domain/careday"
)

type fakeUserRepo struct {
	m map[string]User
}

func (f *fakeUserRepo) Create(ctx context.Context, u User) error {
	f.m[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u User) error {
	if _, ok := f.m[u.ID]; !ok {
		return errors.New("not found")
	}
	f.m[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := f.m[id]
	if !ok {
		return User{}, errors.New("not found")
	}
	return u, nil
}

func (f *fakeUserRepo) GetByName(ctx context.Context, name string) (User, error) {
	for _, u := range f.m {
		if u.Name == name {
			return u, nil
		}
	}
	return User{}, errors.New("not found")
}

func (f *fakeUserRepo) Search(ctx context.Context, prefix string) ([]User, error) {
	out := make([]User, 0)
	for _, u := range f.m {
		if prefix != "" && !strings.HasPrefix(strings.ToLower(u.Name), strings.ToLower(prefix)) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type countingNotifier struct {
	confirmations []string
}

func (c *countingNotifier) TimerExpired(ctx context.Context, petName, label string) {}
func (c *countingNotifier) NightlyReminder(ctx context.Context, lines []string)     {}
func (c *countingNotifier) CheckInConfirmation(ctx context.Context, userName, phoneNumber string) {
	c.confirmations = append(c.confirmations, userName)
}

func newTestService(t *testing.T) (*Service, *countingNotifier) {
	t.Helper()

	notifier := &countingNotifier{}
	svc := NewService(&fakeUserRepo{m: map[string]User{}}, notifier)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	}
	return svc, notifier
}

func TestCheckIn_CreatesThenReuses(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	u, isNew, err := svc.CheckIn(ctx, CheckInInput{
		Name:        "Maria",
		PhoneNumber: "+15551234567",
		WantsAlerts: true,
	})
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if !isNew || u.ID == "" {
		t.Fatalf("expected new user, got isNew=%v id=%q", isNew, u.ID)
	}
	// El alta con alertas dispara la confirmación.
	if len(notifier.confirmations) != 1 {
		t.Fatalf("expected 1 confirmation, got %d", len(notifier.confirmations))
	}

	again, isNew, err := svc.CheckIn(ctx, CheckInInput{Name: "Maria", WantsAlerts: true})
	if err != nil {
		t.Fatalf("repeat check-in: %v", err)
	}
	if isNew || again.ID != u.ID {
		t.Fatalf("expected same user on repeat, got isNew=%v", isNew)
	}
	// El teléfono guardado no se pisa con un valor vacío.
	if again.PhoneNumber != "+15551234567" {
		t.Fatalf("expected phone preserved, got %q", again.PhoneNumber)
	}
}

func TestCheckIn_RequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.CheckIn(context.Background(), CheckInInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdate_ResendsConfirmationOnEverySave(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	u, _, err := svc.CheckIn(ctx, CheckInInput{
		Name:        "Jon",
		PhoneNumber: "+15550000000",
		WantsAlerts: true,
	})
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}

	expiry := careday.Day("2026-09-15")
	updated, err := svc.Update(ctx, u.ID, UpdateInput{AlertExpiry: &expiry})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.AlertExpiry == nil || *updated.AlertExpiry != expiry {
		t.Fatalf("expected expiry persisted, got %v", updated.AlertExpiry)
	}
	// Alta + update = dos confirmaciones: cada guardado re-dispara.
	if len(notifier.confirmations) != 2 {
		t.Fatalf("expected 2 confirmations, got %d", len(notifier.confirmations))
	}

	// Limpiar el vencimiento explícitamente.
	updated, err = svc.Update(ctx, u.ID, UpdateInput{ClearAlertExpiry: true})
	if err != nil {
		t.Fatalf("clear expiry: %v", err)
	}
	if updated.AlertExpiry != nil {
		t.Fatalf("expected expiry cleared, got %v", updated.AlertExpiry)
	}
}

func TestListAlertable_HonorsOptInAndExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	expired := careday.Day("2026-08-01")
	future := careday.Day("2026-12-31")

	seed := []CheckInInput{
		{Name: "Maria", PhoneNumber: "+1555", WantsAlerts: true},
		{Name: "Jon", PhoneNumber: "+1556", WantsAlerts: true, AlertExpiry: &expired},
		{Name: "Visita", PhoneNumber: "+1557", WantsAlerts: true, AlertExpiry: &future},
		{Name: "Silencio", PhoneNumber: "+1558", WantsAlerts: false},
		{Name: "SinTelefono", WantsAlerts: true},
	}
	for _, in := range seed {
		if _, _, err := svc.CheckIn(ctx, in); err != nil {
			t.Fatalf("seed %s: %v", in.Name, err)
		}
	}

	out, err := svc.ListAlertable(ctx, careday.Day("2026-08-29"))
	if err != nil {
		t.Fatalf("list alertable: %v", err)
	}

	names := make([]string, 0, len(out))
	for _, u := range out {
		names = append(names, u.Name)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "Maria" || names[1] != "Visita" {
		t.Fatalf("expected Maria y Visita, got %v", names)
	}
}
