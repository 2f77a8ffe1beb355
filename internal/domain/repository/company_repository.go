package repository

import (
	"context"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// CompanyRepository puerto de persistencia de empresas.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	// ListByUser empresas donde el usuario tiene membresía (cualquier estado).
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Company, error)
}
