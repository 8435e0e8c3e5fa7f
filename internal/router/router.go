package router

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "care-tracker/docs"
	mem "care-tracker/internal/adapters/storage/memory"
	pg "care-tracker/internal/adapters/storage/postgres"
	sqlt "care-tracker/internal/adapters/storage/sqlite"
	"care-tracker/internal/domain/careday"
	"care-tracker/internal/domain/pets"
	"care-tracker/internal/domain/tasklog"
	"care-tracker/internal/domain/tasks"
	"care-tracker/internal/domain/timers"
	"care-tracker/internal/domain/users"
	"care-tracker/internal/middleware"
	"care-tracker/internal/ports/notify"
	"care-tracker/internal/ports/statuslight"
)

type Options struct {
	// PostgresDB gana sobre SQLiteDB; sin ninguna, repos in-memory.
	PostgresDB *sql.DB
	SQLiteDB   *sql.DB

	Days *careday.Resolver

	Notifier notify.Notifier
	Light    statuslight.Trigger

	// Reglas del coordinador de timers; defaults si vienen vacías.
	MealTasks []string
	GatedTask string
}

// Services agrupa los servicios construidos para que main pueda colgar
// de ellos los jobs del scheduler sin reconstruir nada.
type Services struct {
	Pets    *pets.Service
	Tasks   *tasks.Service
	TaskLog *tasklog.Service
	Timers  *timers.Service
	Users   *users.Service
}

func NewRouter(opts Options) (http.Handler, Services) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.ActorContext())

	days := opts.Days
	if days == nil {
		days = careday.NewResolver(careday.DefaultBoundaryHour, time.Local)
	}

	var (
		petRepo   pets.Repository
		taskRepo  tasks.Repository
		logRepo   tasklog.Repository
		timerRepo timers.Repository
		userRepo  users.Repository
	)

	switch {
	case opts.PostgresDB != nil:
		petRepo = pg.NewPetsRepo(opts.PostgresDB)
		taskRepo = pg.NewTasksRepo(opts.PostgresDB)
		logRepo = pg.NewTaskLogRepo(opts.PostgresDB)
		timerRepo = pg.NewTimersRepo(opts.PostgresDB)
		userRepo = pg.NewUsersRepo(opts.PostgresDB)
	case opts.SQLiteDB != nil:
		petRepo = sqlt.NewPetsRepo(opts.SQLiteDB)
		taskRepo = sqlt.NewTasksRepo(opts.SQLiteDB)
		logRepo = sqlt.NewTaskLogRepo(opts.SQLiteDB)
		timerRepo = sqlt.NewTimersRepo(opts.SQLiteDB)
		userRepo = sqlt.NewUsersRepo(opts.SQLiteDB)
	default:
		petRepo = mem.NewPetRepo()
		taskRepo = mem.NewTaskRepo()
		logRepo = mem.NewTaskLogRepo()
		timerRepo = mem.NewTimerRepo()
		userRepo = mem.NewUserRepo()
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	light := opts.Light
	if light == nil {
		light = noopLight{}
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	tasksSvc := tasks.NewService(taskRepo, petsSvc)
	tasklogSvc := tasklog.NewService(logRepo, tasksSvc, petsSvc, days)
	timersSvc := timers.NewService(timerRepo, petsSvc, notifier, light)
	usersSvc := users.NewService(userRepo, notifier)

	coord := timers.NewCoordinator(opts.MealTasks, opts.GatedTask)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/info", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"care_day":    tasklogSvc.Today().String(),
			"server_time": time.Now().Format(time.RFC3339),
			"reset_hour":  days.BoundaryHour,
		})
	})

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	tasks.RegisterRoutes(r, tasksSvc)
	tasklog.RegisterRoutes(r, tasklogSvc, coord)
	timers.RegisterRoutes(r, timersSvc)
	users.RegisterRoutes(r, usersSvc)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r, Services{
		Pets:    petsSvc,
		Tasks:   tasksSvc,
		TaskLog: tasklogSvc,
		Timers:  timersSvc,
		Users:   usersSvc,
	}
}

// noop fallbacks para tests y arranques sin integraciones configuradas.

type noopNotifier struct{}

func (noopNotifier) TimerExpired(ctx context.Context, petName, label string)             {}
func (noopNotifier) NightlyReminder(ctx context.Context, lines []string)                 {}
func (noopNotifier) CheckInConfirmation(ctx context.Context, userName, phoneNumber string) {}

type noopLight struct{}

func (noopLight) Expired(ctx context.Context) error { return nil }
func (noopLight) Running(ctx context.Context) error { return nil }
func (noopLight) Clear(ctx context.Context) error   { return nil }
