package entity

import (
	"time"

	"github.com/jhoicas/Negocio-api/internal/domain/access"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User usuario de la plataforma. La pertenencia a empresas se modela con Membership.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         access.Role
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
