// Package authz implementa la cadena de autorización que corre antes de cada caso de uso:
// ruta pública, credencial, rol global y nivel de acceso en la empresa, en ese orden.
package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/access"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

// Policy requisitos de una ruta. Un requisito ausente (Roles vacío, Level cero) siempre pasa.
type Policy struct {
	Public bool
	Roles  []access.Role
	Level  access.Level
}

// Principal identidad resuelta por la cadena; se adjunta al contexto de la petición.
type Principal struct {
	UserID string
	Role   access.Role
	// Level nivel de la membresía verificada; cero si la ruta no exige nivel o el caller es admin.
	Level access.Level
}

// TokenParser valida el token y devuelve userID y rol. En producción es pkg/jwt.Parse con el secreto.
type TokenParser func(token string) (userID, role string, err error)

// Guard evalúa políticas contra el almacén de usuarios y membresías.
type Guard struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	parse       TokenParser
}

// NewGuard construye la cadena.
func NewGuard(users repository.UserRepository, memberships repository.MembershipRepository, parse TokenParser) *Guard {
	return &Guard{users: users, memberships: memberships, parse: parse}
}

// Check aplica la política. authorization es el valor crudo del header Authorization y companyID
// el parámetro de ruta de la empresa. Para rutas públicas devuelve (nil, nil).
func (g *Guard) Check(ctx context.Context, p Policy, authorization, companyID string) (*Principal, error) {
	if p.Public {
		return nil, nil
	}

	user, err := g.authenticate(ctx, authorization)
	if err != nil {
		return nil, err
	}
	principal := &Principal{UserID: user.ID, Role: user.Role}

	if !access.RoleIn(user.Role, p.Roles) {
		return nil, fmt.Errorf("%w: rol insuficiente", domain.ErrForbidden)
	}

	if p.Level == access.LevelNone || user.Role.IsGlobalAdmin() {
		return principal, nil
	}
	if companyID == "" {
		return nil, fmt.Errorf("%w: empresa no especificada", domain.ErrForbidden)
	}
	m, err := g.memberships.Get(ctx, user.ID, companyID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, fmt.Errorf("%w: no es miembro de esta empresa", domain.ErrForbidden)
	}
	if !access.Allowed(user.Role, m.AccessLevel, p.Level) {
		return nil, fmt.Errorf("%w: nivel de acceso insuficiente", domain.ErrForbidden)
	}
	principal.Level = m.AccessLevel
	return principal, nil
}

func (g *Guard) authenticate(ctx context.Context, authorization string) (*entity.User, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return nil, fmt.Errorf("%w: falta el token de autorización", domain.ErrUnauthenticated)
	}
	userID, _, err := g.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthenticated)
	}
	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("%w: el usuario no existe", domain.ErrUnauthenticated)
	}
	return user, nil
}

// bearerToken extrae el token de "Bearer <token>".
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
