package repository

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// Las empresas las administra el subsistema de identidad; aquí solo se consultan.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}
