// Package retry reintenta operaciones que fallan por conflictos de concurrencia optimista.
package retry

import (
	"context"
	"errors"

	"github.com/jhoicas/Gestion-api/internal/domain"
)

// DefaultAttempts intentos por defecto cuando la configuración no indica otro valor.
const DefaultAttempts = 3

// OnConflict ejecuta fn hasta attempts veces mientras devuelva *domain.ConflictError.
// Cualquier otro error (o éxito) termina de inmediato. Si se agotan los intentos devuelve
// el último ConflictError. fn debe releer el estado en cada intento.
func OnConflict(ctx context.Context, attempts int, fn func() error) error {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	var err error
	for i := 0; i < attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn()
		var conflict *domain.ConflictError
		if !errors.As(err, &conflict) {
			return err
		}
	}
	return err
}
