package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/flashlists/internal/api"
	"github.com/phrazzld/flashlists/internal/api/middleware"
	"github.com/phrazzld/flashlists/internal/config"
	"github.com/phrazzld/flashlists/internal/events"
	"github.com/phrazzld/flashlists/internal/live"
	"github.com/phrazzld/flashlists/internal/maintenance"
	"github.com/phrazzld/flashlists/internal/platform/mailer"
	"github.com/phrazzld/flashlists/internal/platform/metrics"
	"github.com/phrazzld/flashlists/internal/platform/postgres"
	"github.com/phrazzld/flashlists/internal/service"
	"github.com/phrazzld/flashlists/internal/service/auth"
	"github.com/phrazzld/flashlists/internal/store"
	"github.com/phrazzld/flashlists/internal/task"
)

const (
	limiterSweepSchedule = "@every 10m"
	limiterIdle          = 10 * time.Minute
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics   *metrics.Metrics
	queue     *task.TaskQueue
	pool      *task.WorkerPool
	hub       *live.Hub
	scheduler *maintenance.Scheduler
	router    http.Handler
}

// newApplication wires stores, services, background workers and the router.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	m := metrics.New()

	userStore := postgres.NewPostgresUserStore(db, log, cfg.Auth.BCryptCost)
	folderStore := postgres.NewPostgresFolderStore(db, log)
	listStore := postgres.NewPostgresListStore(db, log)
	tx := store.NewTransactor(db)

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	queue := task.NewTaskQueue(cfg.Workers.QueueSize, log)
	pool := task.NewWorkerPool(queue, task.WorkerPoolConfig{WorkerCount: cfg.Workers.Count}, log)
	pool.SetObserver(m.ObserveTask)

	hub := live.NewHub(tokens, m.LiveConnections, live.Config{}, log)
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(hub)

	users, err := service.NewUserService(service.UserServiceDeps{
		Users:     userStore,
		Tx:        tx,
		Tokens:    tokens,
		Passwords: auth.NewBcryptVerifier(),
		Queue:     queue,
		Mailer:    mailer.NewSender(cfg.Mail, log),
		PublicURL: cfg.Server.PublicURL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	folders, err := service.NewFolderService(folderStore, tx, emitter, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder service: %w", err)
	}
	lists, err := service.NewListService(listStore, folderStore, tx, emitter, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create list service: %w", err)
	}
	editor, err := service.NewEditorService(lists, m, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create editor service: %w", err)
	}

	limiter := middleware.NewRateLimiter(middleware.BucketRule{
		FillInterval: time.Second,
		Capacity:     cfg.RateLimit.AuthCapacity,
		Quantum:      cfg.RateLimit.AuthRefillPerSecond,
	})

	scheduler := maintenance.NewScheduler(log)
	purge := maintenance.NewPurgeUnverifiedJob(userStore, cfg.Maintenance.UnverifiedMaxAge(), m.UsersPurged, log)
	if err := scheduler.Add(cfg.Maintenance.PurgeSchedule, purge); err != nil {
		return nil, err
	}
	sweep := maintenance.NewSweepJob("sweep_auth_limiter", limiter, limiterIdle, log)
	if err := scheduler.Add(limiterSweepSchedule, sweep); err != nil {
		return nil, err
	}

	router := newRouter(routerDeps{
		logger:  log,
		auth:    api.NewAuthHandler(users, log),
		folders: api.NewFolderHandler(folders, log),
		lists:   api.NewListHandler(lists, editor, log),
		editor:  api.NewEditorHandler(editor, log),
		authMW:  middleware.NewAuthMiddleware(tokens),
		limiter: limiter,
		live:    hub,
		metrics: m.Handler(),
		health:  db.PingContext,
	})

	return &application{
		config:    cfg,
		logger:    log,
		db:        db,
		metrics:   m,
		queue:     queue,
		pool:      pool,
		hub:       hub,
		scheduler: scheduler,
		router:    router,
	}, nil
}
