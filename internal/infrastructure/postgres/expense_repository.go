package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

const expenseColumns = `id, company_id, project_id, description, category, amount, status, created_by,
	reviewed_by, review_note, reviewed_at, spent_at, created_at, updated_at`

// ExpenseRepo implementación de ExpenseRepository sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var e entity.Expense
	var projectID, reviewedBy *string
	err := row.Scan(&e.ID, &e.CompanyID, &projectID, &e.Description, &e.Category, &e.Amount, &e.Status, &e.CreatedBy,
		&reviewedBy, &e.ReviewNote, &e.ReviewedAt, &e.SpentAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.ProjectID = deref(projectID)
	e.ReviewedBy = deref(reviewedBy)
	return &e, nil
}

// Create persiste el gasto.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	query := `INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, nullIfEmpty(e.ProjectID), e.Description, e.Category, e.Amount, e.Status, e.CreatedBy,
		nullIfEmpty(e.ReviewedBy), e.ReviewNote, e.ReviewedAt, e.SpentAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidAmount
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto; (nil, nil) si no existe.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListByCompany lista gastos de la empresa, más recientes primero.
func (r *ExpenseRepo) ListByCompany(ctx context.Context, companyID string, f repository.ExpenseFilter) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses
		WHERE company_id = $1
		  AND ($2::uuid IS NULL OR created_by = $2)
		  AND ($3::text IS NULL OR status     = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query,
		companyID, nullIfEmpty(f.CreatedBy), nullIfEmpty(string(f.Status)), limitOrAll(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Review guarda la revisión si el estado persistido sigue siendo from.
func (r *ExpenseRepo) Review(ctx context.Context, e *entity.Expense, from entity.ExpenseStatus) error {
	const query = `
		UPDATE expenses
		   SET status = $4, reviewed_by = $5, review_note = $6, reviewed_at = $7, updated_at = $8
		 WHERE id = $1 AND company_id = $2 AND status = $3`
	cmd, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, from, e.Status, nullIfEmpty(e.ReviewedBy), e.ReviewNote, e.ReviewedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("review expense: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.ConflictError{Entity: "expense", ID: e.ID}
	}
	return nil
}

// Delete elimina el gasto si el estado persistido sigue siendo expected.
func (r *ExpenseRepo) Delete(ctx context.Context, id, companyID string, expected entity.ExpenseStatus) error {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1 AND company_id = $2 AND status = $3`,
		id, companyID, expected,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.ConflictError{Entity: "expense", ID: id}
	}
	return nil
}
