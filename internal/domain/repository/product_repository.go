package repository

import (
	"context"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// ProductRepository puerto de productos.
type ProductRepository interface {
	// Create devuelve domain.ErrDuplicate si el SKU ya existe en la empresa.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByCompany(ctx context.Context, companyID string, f ProductFilter) ([]*entity.Product, error)
}
