package entity

import (
	"time"

	"github.com/jhoicas/Negocio-api/internal/domain/access"
)

// Membership relaciona un usuario con una empresa. Única por (UserID, CompanyID).
type Membership struct {
	ID          string
	UserID      string
	CompanyID   string
	AccessLevel access.Level
	Status      access.MembershipStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive informa si la membresía habilita acceso.
func (m *Membership) IsActive() bool {
	return m != nil && m.Status == access.MembershipActive
}

// MemberView membresía con los datos del usuario para listados.
type MemberView struct {
	Membership
	UserEmail string
	UserName  string
}
