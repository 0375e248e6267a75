// Package memory implementa los puertos de persistencia en memoria. Es seguro para uso
// concurrente y está pensado para pruebas y desarrollo local (STORAGE_BACKEND=memory).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// Store guarda copias de las entidades; nunca expone punteros internos.
type Store struct {
	mu sync.RWMutex
	// txMu serializa las transacciones del ledger, equivalente al FOR UPDATE de Postgres.
	txMu sync.Mutex

	companies     map[string]entity.Company
	modules       map[string][]entity.CompanyModule
	users         map[string]entity.User
	overrides     map[string]entity.PermissionOverride
	tasks         map[string]entity.Task
	expenses      map[string]entity.Expense
	leads         map[string]entity.Lead
	invoices      map[string]entity.Invoice
	payments      map[string]entity.Payment
	audit         []entity.AuditEntry
	notifications map[string]entity.Notification
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		companies:     make(map[string]entity.Company),
		modules:       make(map[string][]entity.CompanyModule),
		users:         make(map[string]entity.User),
		overrides:     make(map[string]entity.PermissionOverride),
		tasks:         make(map[string]entity.Task),
		expenses:      make(map[string]entity.Expense),
		leads:         make(map[string]entity.Lead),
		invoices:      make(map[string]entity.Invoice),
		payments:      make(map[string]entity.Payment),
		notifications: make(map[string]entity.Notification),
	}
}

// PutCompany registra (o reemplaza) una empresa y sus módulos.
func (s *Store) PutCompany(c entity.Company, modules ...entity.CompanyModule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
	s.modules[c.ID] = append([]entity.CompanyModule(nil), modules...)
}

// PutUser registra (o reemplaza) un usuario. Los usuarios los crea el subsistema de identidad.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// AuditEntries devuelve una copia del log de auditoría en orden de inserción.
func (s *Store) AuditEntries() []entity.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.AuditEntry(nil), s.audit...)
}

// Repositorios.

func (s *Store) Companies() repository.CompanyRepository            { return companyRepo{s} }
func (s *Store) Users() repository.UserRepository                   { return userRepo{s} }
func (s *Store) Overrides() repository.PermissionOverrideRepository { return overrideRepo{s} }
func (s *Store) Tasks() repository.TaskRepository                   { return taskRepo{s} }
func (s *Store) Expenses() repository.ExpenseRepository             { return expenseRepo{s} }
func (s *Store) Leads() repository.LeadRepository                   { return leadRepo{s} }
func (s *Store) Invoices() repository.InvoiceRepository             { return invoiceRepo{s: s} }
func (s *Store) Payments() repository.PaymentRepository             { return paymentRepo{s: s} }
func (s *Store) AuditLogs() repository.AuditLogRepository           { return auditRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository   { return notificationRepo{s} }
func (s *Store) Analytics() repository.AnalyticsRepository          { return analyticsRepo{s} }

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// page aplica limit/offset sobre una lista ya ordenada.
func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// newestFirst ordena por fecha de creación descendente y luego por ID.
func newestFirst[T any](list []T, key func(T) (time.Time, string)) {
	sort.SliceStable(list, func(i, j int) bool {
		ti, idi := key(list[i])
		tj, idj := key(list[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi < idj
	})
}
