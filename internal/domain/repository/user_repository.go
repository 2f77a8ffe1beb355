package repository

import (
	"context"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios. GetBy* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}

// MembershipRepository puerto de membresías usuario-empresa (única por par).
type MembershipRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe el par (usuario, empresa).
	Create(ctx context.Context, m *entity.Membership) error
	Get(ctx context.Context, userID, companyID string) (*entity.Membership, error)
	GetByID(ctx context.Context, id string) (*entity.Membership, error)
	Update(ctx context.Context, m *entity.Membership) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.MemberView, error)
}
