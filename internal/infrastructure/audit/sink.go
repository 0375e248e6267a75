package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

const writeTimeout = 3 * time.Second

var _ ports.AuditSink = (*Sink)(nil)

// FailureRecorder cuenta escrituras fallidas (métricas).
type FailureRecorder interface {
	AuditFailure()
}

// Sink persiste entradas de auditoría después de confirmar la mutación.
// Un fallo se registra en el log y no se propaga.
type Sink struct {
	repo     repository.AuditLogRepository
	log      zerolog.Logger
	failures FailureRecorder
}

// NewSink construye el sink sobre el repositorio de auditoría.
func NewSink(repo repository.AuditLogRepository, log zerolog.Logger, failures FailureRecorder) *Sink {
	return &Sink{repo: repo, log: log, failures: failures}
}

// Record completa ID y fecha y guarda la entrada. La cancelación de ctx no la descarta:
// la mutación ya está confirmada.
func (s *Sink) Record(ctx context.Context, entry entity.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := s.repo.Append(wctx, &entry); err != nil {
		if s.failures != nil {
			s.failures.AuditFailure()
		}
		s.log.Error().Err(err).
			Str("action", entry.Action).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID).
			Msg("no se pudo registrar la auditoría")
	}
}
