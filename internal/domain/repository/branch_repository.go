package repository

import (
	"context"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// BranchRepository puerto de sucursales.
type BranchRepository interface {
	// Create devuelve domain.ErrDuplicate si el código ya existe en la empresa.
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Branch, error)
	Delete(ctx context.Context, id string) error
}
