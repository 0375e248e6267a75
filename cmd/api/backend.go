package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Gestion-api/internal/application/billing"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestion-api/pkg/config"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

// backend agrupa los repositorios del almacenamiento elegido con STORAGE_BACKEND.
type backend struct {
	companies     repository.CompanyRepository
	users         repository.UserRepository
	overrides     repository.PermissionOverrideRepository
	tasks         repository.TaskRepository
	expenses      repository.ExpenseRepository
	leads         repository.LeadRepository
	invoices      repository.InvoiceRepository
	payments      repository.PaymentRepository
	auditLogs     repository.AuditLogRepository
	notifications repository.NotificationRepository
	analytics     repository.AnalyticsRepository
	ledgerTx      billing.LedgerTxRunner
	close         func()
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.DB.MigrateOnStart {
		if err := migrateUp(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return postgresBackend(pool), nil
}

func postgresBackend(pool *pgxpool.Pool) *backend {
	return &backend{
		companies:     postgres.NewCompanyRepository(pool),
		users:         postgres.NewUserRepository(pool),
		overrides:     postgres.NewPermissionOverrideRepository(pool),
		tasks:         postgres.NewTaskRepository(pool),
		expenses:      postgres.NewExpenseRepository(pool),
		leads:         postgres.NewLeadRepository(pool),
		invoices:      postgres.NewInvoiceRepository(pool),
		payments:      postgres.NewPaymentRepository(pool),
		auditLogs:     postgres.NewAuditLogRepository(pool),
		notifications: postgres.NewNotificationRepository(pool),
		analytics:     postgres.NewAnalyticsRepository(pool),
		ledgerTx:      postgres.NewTxRunner(pool),
		close:         pool.Close,
	}
}

func migrateUp(dsn string) error {
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// Datos de arranque del backend en memoria.
const (
	devCompanyID = "00000000-0000-0000-0000-000000000001"
	devAdminID   = "00000000-0000-0000-0000-000000000010"
)

// openMemory crea un store en memoria con una empresa y un administrador de desarrollo
// que tienen todos los módulos activos.
func openMemory() *backend {
	store := memory.New()
	now := time.Now().UTC()
	var modules []entity.CompanyModule
	for _, name := range []string{entity.ModuleProjects, entity.ModuleBilling, entity.ModuleCRM, entity.ModuleHR, entity.ModuleAnalytics} {
		modules = append(modules, entity.CompanyModule{
			ID:          fmt.Sprintf("dev-%s", name),
			CompanyID:   devCompanyID,
			ModuleName:  name,
			IsActive:    true,
			ActivatedAt: now,
		})
	}
	store.PutCompany(entity.Company{ID: devCompanyID, Name: "Empresa de desarrollo", Status: "active", CreatedAt: now, UpdatedAt: now}, modules...)
	store.PutUser(entity.User{
		ID:        devAdminID,
		CompanyID: devCompanyID,
		Email:     "admin@local.dev",
		Name:      "Administrador",
		Role:      entity.RoleAdmin,
		Status:    entity.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return &backend{
		companies:     store.Companies(),
		users:         store.Users(),
		overrides:     store.Overrides(),
		tasks:         store.Tasks(),
		expenses:      store.Expenses(),
		leads:         store.Leads(),
		invoices:      store.Invoices(),
		payments:      store.Payments(),
		auditLogs:     store.AuditLogs(),
		notifications: store.Notifications(),
		analytics:     store.Analytics(),
		ledgerTx:      store.LedgerTx(),
		close:         func() {},
	}
}
