package http

import (
	"github.com/jhoicas/Negocio-api/internal/application/authz"
	"github.com/jhoicas/Negocio-api/internal/domain/access"
)

var (
	public        = authz.Policy{Public: true}
	authenticated = authz.Policy{}
	adminOnly     = authz.Policy{Roles: []access.Role{access.RoleAdmin}}
)

func level(l access.Level) authz.Policy { return authz.Policy{Level: l} }

// Policies tabla de autorización por ruta. Toda ruta registrada en Router debe tener entrada.
var Policies = map[string]authz.Policy{
	"health":        public,
	"auth.register": public,
	"auth.login":    public,
	"auth.me":       authenticated,

	"users.list": adminOnly,

	"companies.create": authenticated,
	"companies.list":   authenticated,
	"companies.get":    level(access.LevelEmployee),
	"companies.update": level(access.LevelAdmin),
	"companies.delete": level(access.LevelOwner),

	"members.list":   level(access.LevelEmployee),
	"members.add":    level(access.LevelAdmin),
	"members.update": level(access.LevelAdmin),

	"branches.list":   level(access.LevelEmployee),
	"branches.get":    level(access.LevelEmployee),
	"branches.create": level(access.LevelAdmin),
	"branches.update": level(access.LevelAdmin),
	"branches.delete": level(access.LevelAdmin),

	"products.list":   level(access.LevelEmployee),
	"products.get":    level(access.LevelEmployee),
	"products.create": level(access.LevelManager),
	"products.update": level(access.LevelManager),
	"products.image":  level(access.LevelManager),
	"products.delete": level(access.LevelAdmin),

	"customers.list":   level(access.LevelEmployee),
	"customers.get":    level(access.LevelEmployee),
	"customers.create": level(access.LevelManager),
	"customers.update": level(access.LevelManager),
	"customers.delete": level(access.LevelAdmin),

	"inventory.list": level(access.LevelEmployee),

	"invoices.list":          level(access.LevelEmployee),
	"invoices.get":           level(access.LevelEmployee),
	"invoices.items":         level(access.LevelEmployee),
	"invoices.pdf":           level(access.LevelEmployee),
	"invoices.create":        level(access.LevelManager),
	"invoices.update":        level(access.LevelManager),
	"invoices.items.replace": level(access.LevelManager),
	"invoices.status":        level(access.LevelManager),
	"invoices.delete":        level(access.LevelAdmin),

	"stock.list":   level(access.LevelEmployee),
	"stock.record": level(access.LevelSupervisor),
	"stock.bulk":   level(access.LevelSupervisor),

	"movement_types.list": authenticated,
}
