package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/authz"
	"github.com/jhoicas/Gestion-api/internal/application/billing"
	"github.com/jhoicas/Gestion-api/internal/application/crm"
	"github.com/jhoicas/Gestion-api/internal/application/expenses"
	"github.com/jhoicas/Gestion-api/internal/application/tasks"
	"github.com/jhoicas/Gestion-api/internal/application/usecase"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TaskUC         *tasks.UseCase
	ExpenseUC      *expenses.UseCase
	CRMUC          *crm.UseCase
	BillingUC      *billing.UseCase
	UserUC         *usecase.UserUseCase
	AnalyticsUC    *usecase.AnalyticsUseCase
	NotificationUC *usecase.NotificationUseCase
	Authz          *authz.Service
	ModuleService  *usecase.ModuleService
	Metrics        *metrics.Collectors // nil = sin /metrics
	JWTSecret      string
	JWTIssuer      string
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(Metrics(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	log := deps.Log

	// Proyectos: tareas y gastos
	tasksGroup := protected.Group("/tasks", RequireModule(entity.ModuleProjects, deps.ModuleService, log))
	taskHandler := NewTaskHandler(deps.TaskUC, log.With().Str("handler", "tasks").Logger())
	tasksGroup.Post("/", taskHandler.Create)
	tasksGroup.Get("/", taskHandler.List)
	tasksGroup.Get("/:id", taskHandler.GetByID)
	tasksGroup.Put("/:id/status", taskHandler.ChangeStatus)

	expensesGroup := protected.Group("/expenses", RequireModule(entity.ModuleProjects, deps.ModuleService, log))
	expenseHandler := NewExpenseHandler(deps.ExpenseUC, log.With().Str("handler", "expenses").Logger())
	expensesGroup.Post("/", expenseHandler.Create)
	expensesGroup.Get("/", expenseHandler.List)
	expensesGroup.Get("/:id", expenseHandler.GetByID)
	expensesGroup.Put("/:id/review", expenseHandler.Review)
	expensesGroup.Delete("/:id", expenseHandler.Delete)

	// CRM
	leads := protected.Group("/leads", RequireModule(entity.ModuleCRM, deps.ModuleService, log))
	leadHandler := NewLeadHandler(deps.CRMUC, log.With().Str("handler", "leads").Logger())
	leads.Post("/", leadHandler.Create)
	leads.Get("/", leadHandler.List)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Put("/:id/stage", leadHandler.MoveStage)

	// Facturación y pagos
	invoices := protected.Group("/invoices", RequireModule(entity.ModuleBilling, deps.ModuleService, log))
	invoiceHandler := NewInvoiceHandler(deps.BillingUC, log.With().Str("handler", "invoices").Logger())
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/status", invoiceHandler.ChangeStatus)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)

	analytics := protected.Group("/analytics", RequireModule(entity.ModuleAnalytics, deps.ModuleService, log))
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC, log.With().Str("handler", "analytics").Logger())
	analytics.Get("/summary", analyticsHandler.Summary)

	// Administración (sin módulo)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, log.With().Str("handler", "users").Logger())
	users.Get("/", userHandler.List)
	users.Put("/:id/role", userHandler.ChangeRole)
	users.Delete("/:id", userHandler.Delete)

	perms := protected.Group("/permissions/users")
	permHandler := NewPermissionHandler(deps.Authz, log.With().Str("handler", "permissions").Logger())
	perms.Get("/:id", permHandler.List)
	perms.Put("/:id", permHandler.Set)
	perms.Delete("/:id/:resource/:action", permHandler.Clear)

	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC, log.With().Str("handler", "notifications").Logger())
	notifications.Get("/", notificationHandler.List)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
}
