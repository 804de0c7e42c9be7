package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/praxis-suite/praxis/internal/app"
	"github.com/praxis-suite/praxis/internal/audit"
	"github.com/praxis-suite/praxis/internal/auth"
	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/departments"
	"github.com/praxis-suite/praxis/internal/invoices"
	"github.com/praxis-suite/praxis/internal/observability"
	"github.com/praxis-suite/praxis/internal/permissions"
	"github.com/praxis-suite/praxis/internal/platform/cache"
	"github.com/praxis-suite/praxis/internal/platform/db"
	"github.com/praxis-suite/praxis/internal/policystore"
	"github.com/praxis-suite/praxis/internal/projects"
	"github.com/praxis-suite/praxis/internal/shared"
	"github.com/praxis-suite/praxis/internal/tasks"
	"github.com/praxis-suite/praxis/internal/tenants"
	"github.com/praxis-suite/praxis/internal/timeentries"
	"github.com/praxis-suite/praxis/internal/users"
	"github.com/praxis-suite/praxis/jobs"
	"github.com/praxis-suite/praxis/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "praxis_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	metrics := observability.NewMetrics()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	auditRecorder := audit.NewRecorder(asynqClient, logger)

	policyRepo := policystore.NewRepository(dbpool)
	policyCache := policystore.NewCachedStore(policyRepo, redisClient, cfg.PolicyCacheTTL)
	resolver := authz.NewResolver(policyCache, auditRecorder, logger).WithObserver(metrics)
	guard := authz.Middleware{Resolver: resolver, Logger: logger}

	authRepo := auth.NewPostgresRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	usersRepo := users.NewPostgresRepository(dbpool)
	usersService := users.NewService(usersRepo, resolver)
	usersHandler := users.NewHandler(logger, usersService, guard)

	tenantsRepo := tenants.NewPostgresRepository(dbpool)
	tenantsService := tenants.NewService(tenantsRepo, policyCache)
	tenantsHandler := tenants.NewHandler(logger, tenantsService, guard)

	departmentsRepo := departments.NewPostgresRepository(dbpool)
	departmentsService := departments.NewService(departmentsRepo)
	departmentsHandler := departments.NewHandler(logger, departmentsService, guard)

	permissionsRepo := permissions.NewPostgresRepository(dbpool)
	permissionsService := permissions.NewService(permissionsRepo, permissions.NewUsersDirectory(usersRepo), departmentsRepo)
	permissionsHandler := permissions.NewHandler(logger, permissionsService, guard)

	auditRepo := audit.NewRepository(dbpool)
	auditService := audit.NewService(auditRepo)
	auditHandler := audit.NewHandler(logger, auditService, guard)

	projectsRepo := projects.NewPostgresRepository(dbpool)
	projectsService := projects.NewService(projectsRepo, resolver)
	projectsHandler := projects.NewHandler(logger, projectsService, guard)

	tasksRepo := tasks.NewPostgresRepository(dbpool)
	tasksService := tasks.NewService(tasksRepo, resolver)
	tasksHandler := tasks.NewHandler(logger, tasksService, guard)

	timeEntriesRepo := timeentries.NewPostgresRepository(dbpool)
	timeEntriesService := timeentries.NewService(timeEntriesRepo, resolver)
	timeEntriesHandler := timeentries.NewHandler(logger, timeEntriesService, guard)

	invoicesRepo := invoices.NewPostgresRepository(dbpool)
	invoicesService := invoices.NewService(invoicesRepo, resolver, idempotencyStore)
	invoiceRenderer := report.NewInvoiceRenderer(report.NewClient(cfg.GotenbergURL))
	invoicesHandler := invoices.NewHandler(logger, invoicesService, guard, invoiceRenderer)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		Authz:              guard,
		AuthHandler:        authHandler,
		UsersHandler:       usersHandler,
		TenantsHandler:     tenantsHandler,
		DepartmentsHandler: departmentsHandler,
		PermissionsHandler: permissionsHandler,
		AuditHandler:       auditHandler,
		ProjectsHandler:    projectsHandler,
		TasksHandler:       tasksHandler,
		TimeEntriesHandler: timeEntriesHandler,
		InvoicesHandler:    invoicesHandler,
		JobsHandler:        jobsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
