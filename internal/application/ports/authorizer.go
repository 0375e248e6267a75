package ports

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// Authorizer decide si el actor puede ejecutar action sobre resource.
// ownerID vacío = sin regla de propiedad. Lo implementa *authz.Service.
type Authorizer interface {
	Authorize(ctx context.Context, actor entity.Actor, resource entity.Resource, action entity.Action, ownerID string) error
}
