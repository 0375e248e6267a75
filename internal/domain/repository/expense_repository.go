package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ExpenseFilter filtros de listado.
type ExpenseFilter struct {
	CreatedBy string
	Status    entity.ExpenseStatus
	Limit     int
	Offset    int
}

// ExpenseRepository define el puerto de persistencia para Expense.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	ListByCompany(ctx context.Context, companyID string, f ExpenseFilter) ([]*entity.Expense, error)
	// Review guarda la revisión (estado, revisor, nota) si el estado persistido sigue
	// siendo from. Si no, devuelve *domain.ConflictError.
	Review(ctx context.Context, expense *entity.Expense, from entity.ExpenseStatus) error
	// Delete elimina el gasto si el estado persistido sigue siendo expected.
	// Si no, devuelve *domain.ConflictError.
	Delete(ctx context.Context, id, companyID string, expected entity.ExpenseStatus) error
}
