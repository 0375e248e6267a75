package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrInvalidAmount      = errors.New("monto inválido")
	ErrLedgerInconsistent = errors.New("saldo de factura inconsistente")
)

// AuthorizationError indica que el actor no tiene permiso para (Resource, Action).
// Es terminal para la petición: no se reintenta.
type AuthorizationError struct {
	Resource string
	Action   string
	Reason   string
}

func (e *AuthorizationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no autorizado para %s:%s (%s)", e.Resource, e.Action, e.Reason)
	}
	return fmt.Sprintf("no autorizado para %s:%s", e.Resource, e.Action)
}

func (e *AuthorizationError) Unwrap() error { return ErrForbidden }

// InvalidTransitionError indica que From → To no es una arista del grafo de estados de Entity.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: no se puede pasar de %s a %s", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// InvalidAmountError indica un monto de pago fuera de rango. Bound es el límite violado
// (0, el saldo actual o la precisión mínima 0.01).
type InvalidAmountError struct {
	Amount decimal.Decimal
	Bound  decimal.Decimal
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("monto %s inválido: %s %s", e.Amount.StringFixed(2), e.Reason, e.Bound.StringFixed(2))
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// ConflictError indica que el estado cambió entre la lectura y la escritura (chequeo optimista).
// El llamador puede reintentar.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s fue modificado concurrentemente, intente de nuevo", e.Entity, e.ID)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
