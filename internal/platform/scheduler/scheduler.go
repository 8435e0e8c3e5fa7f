// Package scheduler agrupa los trabajos periódicos del servicio sobre
// un cron compartido: el barrido de timers vencidos, el recordatorio
// nocturno y la limpieza diaria en el corte del care day.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron"

	"care-tracker/internal/domain/tasklog"
	"care-tracker/internal/domain/timers"
	"care-tracker/internal/domain/users"
	"care-tracker/internal/platform/logger"
	"care-tracker/internal/ports/notify"
)

type Options struct {
	// ResetHour es la hora local del corte del care day; la limpieza de
	// timers corre un minuto después para no pisar el borde exacto.
	ResetHour int

	// NightlyHour es la hora local del recordatorio de pendientes.
	NightlyHour int

	Location *time.Location
}

type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger

	timersSvc  *timers.Service
	tasklogSvc *tasklog.Service
	usersSvc   *users.Service
	notifier   notify.Notifier
}

func New(
	opts Options,
	timersSvc *timers.Service,
	tasklogSvc *tasklog.Service,
	usersSvc *users.Service,
	notifier notify.Notifier,
	log logger.Logger,
) (*Scheduler, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	if opts.NightlyHour == 0 {
		opts.NightlyHour = 21
	}

	s := &Scheduler{
		cron:       cron.NewWithLocation(loc),
		log:        log.With(map[string]any{"component": "scheduler"}),
		timersSvc:  timersSvc,
		tasklogSvc: tasklogSvc,
		usersSvc:   usersSvc,
		notifier:   notifier,
	}

	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{"@every 1m", "timer_sweep", s.sweepTimers},
		{fmt.Sprintf("0 0 %d * * *", opts.NightlyHour), "nightly_reminder", s.nightlyReminder},
		{fmt.Sprintf("0 1 %d * * *", opts.ResetHour), "daily_reset", s.dailyReset},
	}

	for _, j := range jobs {
		if err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", j.name, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", nil)
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) sweepTimers() {
	ctx, cancel := jobContext()
	defer cancel()

	if err := s.timersSvc.SweepExpired(ctx); err != nil {
		s.log.Error("timer sweep failed", map[string]any{"error": err.Error()})
	}
}

// nightlyReminder arma una línea por mascota con las tareas todavía
// pendientes del care day actual y la manda a quien tenga alertas
// activas. Sin pendientes o sin destinatarios, no molesta a nadie.
func (s *Scheduler) nightlyReminder() {
	ctx, cancel := jobContext()
	defer cancel()

	day := s.tasklogSvc.Today()

	alertable, err := s.usersSvc.ListAlertable(ctx, day)
	if err != nil {
		s.log.Error("nightly reminder: list users failed", map[string]any{"error": err.Error()})
		return
	}
	if len(alertable) == 0 {
		return
	}

	summary, err := s.tasklogSvc.Summary(ctx, day)
	if err != nil {
		s.log.Error("nightly reminder: summary failed", map[string]any{"error": err.Error()})
		return
	}

	lines := make([]string, 0, len(summary))
	for _, pd := range summary {
		pending := make([]string, 0)
		for _, ts := range pd.Tasks {
			if !ts.Status.Done {
				pending = append(pending, ts.Item.Name)
			}
		}
		if len(pending) > 0 {
			lines = append(lines, pd.Pet.Name+": "+strings.Join(pending, ", "))
		}
	}
	if len(lines) == 0 {
		return
	}

	s.notifier.NightlyReminder(ctx, lines)
	s.log.Info("nightly reminder sent", map[string]any{
		"pets":       len(lines),
		"recipients": len(alertable),
	})
}

func (s *Scheduler) dailyReset() {
	ctx, cancel := jobContext()
	defer cancel()

	cleared, err := s.timersSvc.DailyReset(ctx)
	if err != nil {
		s.log.Error("daily reset failed", map[string]any{"error": err.Error()})
		return
	}
	if cleared > 0 {
		s.log.Info("daily reset cleared timers", map[string]any{"count": cleared})
	}
}

func jobContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
