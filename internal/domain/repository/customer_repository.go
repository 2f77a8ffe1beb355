package repository

import (
	"context"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// CustomerRepository puerto de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetGeneric devuelve el cliente genérico de la empresa o (nil, nil).
	GetGeneric(ctx context.Context, companyID string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error)
	Delete(ctx context.Context, id string) error
}
