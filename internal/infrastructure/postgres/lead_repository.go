package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, company_id, name, contact_email, estimated_value, stage, owner_id, created_by,
	lost_reason, created_at, updated_at`

// LeadRepo implementación de LeadRepository sobre PostgreSQL.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador.
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.ContactEmail, &l.EstimatedValue, &l.Stage, &l.OwnerID, &l.CreatedBy,
		&l.LostReason, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste el lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.Name, l.ContactEmail, l.EstimatedValue, l.Stage, l.OwnerID, l.CreatedBy,
		l.LostReason, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead; (nil, nil) si no existe.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// ListByCompany lista leads de la empresa, más recientes primero.
func (r *LeadRepo) ListByCompany(ctx context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE company_id = $1
		  AND ($2::uuid IS NULL OR owner_id = $2)
		  AND ($3::text IS NULL OR stage    = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query,
		companyID, nullIfEmpty(f.OwnerID), nullIfEmpty(string(f.Stage)), limitOrAll(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateStage escribe la nueva etapa si la persistida sigue siendo from.
func (r *LeadRepo) UpdateStage(ctx context.Context, l *entity.Lead, from entity.LeadStage) error {
	const query = `
		UPDATE leads SET stage = $4, lost_reason = $5, updated_at = $6
		 WHERE id = $1 AND company_id = $2 AND stage = $3`
	cmd, err := r.q.Exec(ctx, query, l.ID, l.CompanyID, from, l.Stage, l.LostReason, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lead stage: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.ConflictError{Entity: "lead", ID: l.ID}
	}
	return nil
}
