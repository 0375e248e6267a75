package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

const taskColumns = `id, company_id, project_id, title, description, status, created_by, assignee_id,
	due_date, completed_at, created_at, updated_at`

// TaskRepo implementación de TaskRepository sobre PostgreSQL.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var projectID, assignee *string
	err := row.Scan(&t.ID, &t.CompanyID, &projectID, &t.Title, &t.Description, &t.Status, &t.CreatedBy, &assignee,
		&t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ProjectID = deref(projectID)
	t.AssigneeID = deref(assignee)
	return &t, nil
}

// Create persiste la tarea.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, nullIfEmpty(t.ProjectID), t.Title, t.Description, t.Status, t.CreatedBy,
		nullIfEmpty(t.AssigneeID), t.DueDate, t.CompletedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea; (nil, nil) si no existe.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t, err := scanTask(r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByCompany lista tareas de la empresa, más recientes primero.
func (r *TaskRepo) ListByCompany(ctx context.Context, companyID string, f repository.TaskFilter) ([]*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE company_id = $1
		  AND ($2::uuid IS NULL OR project_id  = $2)
		  AND ($3::uuid IS NULL OR assignee_id = $3)
		  AND ($4::text IS NULL OR status      = $4)
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query,
		companyID, nullIfEmpty(f.ProjectID), nullIfEmpty(f.AssigneeID), nullIfEmpty(string(f.Status)),
		limitOrAll(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// UpdateStatus escribe to solo si el estado persistido sigue siendo from.
func (r *TaskRepo) UpdateStatus(ctx context.Context, id, companyID string, from, to entity.TaskStatus, at time.Time) error {
	const query = `
		UPDATE tasks
		   SET status       = $4,
		       updated_at   = $5,
		       completed_at = CASE WHEN $4 = 'COMPLETED' THEN $5 ELSE completed_at END
		 WHERE id = $1 AND company_id = $2 AND status = $3`
	cmd, err := r.q.Exec(ctx, query, id, companyID, from, to, at)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.ConflictError{Entity: "task", ID: id}
	}
	return nil
}
