package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Negocio-api/internal/application/authz"
	"github.com/jhoicas/Negocio-api/internal/domain"
)

// Locals keys del contexto Fiber.
const (
	LocalPrincipal = "principal"
)

// CompanyParam parámetro de ruta con el que la cadena resuelve la membresía.
const CompanyParam = "companyId"

// RequirePolicy ejecuta la cadena de autorización con la política de la ruta y deja el
// Principal en c.Locals. Rutas públicas pasan sin credencial.
func RequirePolicy(guard *authz.Guard, p authz.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := guard.Check(c.Context(), p, c.Get(fiber.HeaderAuthorization), c.Params(CompanyParam))
		if err != nil {
			return err
		}
		if principal != nil {
			c.Locals(LocalPrincipal, principal)
		}
		return c.Next()
	}
}

// GetPrincipal devuelve la identidad autenticada; nil en rutas públicas.
func GetPrincipal(c *fiber.Ctx) *authz.Principal {
	p, _ := c.Locals(LocalPrincipal).(*authz.Principal)
	return p
}

// GetUserID devuelve el UserID del contexto (después de RequirePolicy).
func GetUserID(c *fiber.Ctx) string {
	if p := GetPrincipal(c); p != nil {
		return p.UserID
	}
	return ""
}

// mustPrincipal para handlers de rutas autenticadas.
func mustPrincipal(c *fiber.Ctx) (*authz.Principal, error) {
	p := GetPrincipal(c)
	if p == nil {
		return nil, fmt.Errorf("%w: falta el token de autorización", domain.ErrUnauthenticated)
	}
	return p, nil
}
