package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Gestion-api/internal/application/auth"
	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/billing"
	"github.com/jhoicas/Gestion-api/internal/application/crm"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/expenses"
	"github.com/jhoicas/Gestion-api/internal/application/tasks"
	"github.com/jhoicas/Gestion-api/internal/application/usecase"
	"github.com/jhoicas/Gestion-api/internal/domain/permission"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/audit"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/notify"
	httpRouter "github.com/jhoicas/Gestion-api/internal/interfaces/http"
	"github.com/jhoicas/Gestion-api/pkg/config"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var store *backend
	if cfg.Storage.Backend == "memory" {
		store = openMemory()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	} else {
		store, err = openPostgres(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
	}
	defer store.close()

	collectors := metrics.New()

	dispatcher := notify.NewDispatcher(store.notifications, log.Component("notify"), collectors, cfg.Notify.Buffer, cfg.Notify.Timeout())
	dispatcher.Start()
	auditSink := audit.NewSink(store.auditLogs, log.Component("audit"), collectors)

	authzSvc := authz.NewService(permission.NewGate(nil), store.overrides, store.users, auditSink)
	retries := cfg.Ledger.MaxRetries

	taskUC := tasks.NewUseCase(store.tasks, authzSvc, dispatcher, auditSink, retries)
	expenseUC := expenses.NewUseCase(store.expenses, authzSvc, dispatcher, auditSink, retries, cfg.Expense.ManagerApprovalLimit)
	crmUC := crm.NewUseCase(store.leads, store.users, authzSvc, dispatcher, auditSink, retries)
	billingUC := billing.NewUseCase(store.ledgerTx, store.invoices, store.payments, authzSvc, dispatcher, auditSink, retries, log.Component("billing"))
	userUC := usecase.NewUserUseCase(store.users, authzSvc, auditSink, retries)
	analyticsUC := usecase.NewAnalyticsUseCase(store.analytics, authzSvc)
	notificationUC := usecase.NewNotificationUseCase(store.notifications, authzSvc)
	moduleSvc := usecase.NewModuleService(store.companies)

	if cfg.Storage.Backend == "memory" && cfg.JWT.Secret != "" {
		issuer := auth.NewTokenIssuer(store.users, auth.JWTConfig{Secret: cfg.JWT.Secret, TTL: cfg.JWT.TTL(), Issuer: cfg.JWT.Issuer})
		if token, _, err := issuer.Issue(ctx, devAdminID); err == nil {
			log.Info().Str("user_id", devAdminID).Str("token", token).Msg("token de desarrollo")
		}
	}

	readTimeout := time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	if cfg.HTTP.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.HTTP.RateLimit,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
			},
		}))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestion API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		TaskUC:         taskUC,
		ExpenseUC:      expenseUC,
		CRMUC:          crmUC,
		BillingUC:      billingUC,
		UserUC:         userUC,
		AnalyticsUC:    analyticsUC,
		NotificationUC: notificationUC,
		Authz:          authzSvc,
		ModuleService:  moduleSvc,
		Metrics:        collectors,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		Log:            log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Las notificaciones pendientes se entregan antes de cerrar el pool.
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notificaciones pendientes sin entregar")
	}

	log.Info().Msg("aplicación detenida")
}
