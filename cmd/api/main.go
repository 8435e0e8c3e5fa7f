package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"care-tracker/internal/adapters/hass"
	"care-tracker/internal/adapters/notify"
	pg "care-tracker/internal/adapters/storage/postgres"
	sqlt "care-tracker/internal/adapters/storage/sqlite"
	"care-tracker/internal/config"
	"care-tracker/internal/domain/careday"
	"care-tracker/internal/platform/logger"
	"care-tracker/internal/platform/scheduler"
	"care-tracker/internal/router"
	"care-tracker/internal/seed"
	notifyport "care-tracker/internal/ports/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	ctx := context.Background()

	days := careday.NewResolver(cfg.DayResetHour, cfg.Location())

	var notifier notifyport.Notifier
	if cfg.AlertWebhookURL != "" {
		notifier = notify.NewWebhook(cfg.AlertWebhookURL, log)
	} else {
		notifier = notify.NewLogNotifier(log)
	}
	light := hass.NewStatusLight(cfg.HassURL, cfg.HassToken, log)

	opts := router.Options{
		Days:      days,
		Notifier:  notifier,
		Light:     light,
		MealTasks: cfg.MealTasks,
		GatedTask: cfg.GatedTask,
	}

	// Storage: Postgres si hay DSN, si no sqlite, si no memoria.
	switch {
	case cfg.DBDSN != "":
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		if err := pg.EnsureSchema(ctx, db); err != nil {
			log.Error("postgres schema failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.PostgresDB = db
		log.Info("storage: postgres", nil)
	case cfg.SQLitePath != "":
		db, err := sqlt.Open(cfg.SQLitePath)
		if err != nil {
			log.Error("sqlite open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		if err := sqlt.EnsureSchema(ctx, db); err != nil {
			log.Error("sqlite schema failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		opts.SQLiteDB = db
		log.Info("storage: sqlite", map[string]any{"path": cfg.SQLitePath})
	default:
		log.Warn("storage: in-memory (data is lost on restart)", nil)
	}

	handler, svcs := router.NewRouter(opts)

	if err := seed.Run(ctx, svcs.Pets, svcs.Tasks, log); err != nil {
		log.Error("seed failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	sched, err := scheduler.New(scheduler.Options{
		ResetHour: cfg.DayResetHour,
		Location:  cfg.Location(),
	}, svcs.Timers, svcs.TaskLog, svcs.Users, notifier, log)
	if err != nil {
		log.Error("scheduler setup failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("server started", map[string]any{"addr": srv.Addr})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})

		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", map[string]any{"error": err.Error()})
		}
	}
}
