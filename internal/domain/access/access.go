// Package access define los roles globales y la jerarquía numérica de niveles de acceso
// por empresa. Solo datos y comparaciones, sin efectos secundarios.
package access

import (
	"strconv"
	"strings"
)

// Role es el rol global del usuario (viaja en el token).
type Role string

const (
	RoleAdmin Role = "admin" // administrador de la plataforma: omite toda verificación por empresa
	RoleUser  Role = "user"
)

// ParseRole normaliza el rol; vacío o desconocido => RoleUser.
func ParseRole(s string) Role {
	if Role(strings.ToLower(strings.TrimSpace(s))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// IsGlobalAdmin informa si el rol omite los chequeos por empresa.
func (r Role) IsGlobalAdmin() bool { return r == RoleAdmin }

// Level nivel de acceso dentro de una empresa. Mayor número = más privilegio.
type Level int

const (
	LevelNone       Level = 0
	LevelEmployee   Level = 10
	LevelSupervisor Level = 20
	LevelManager    Level = 30
	LevelAdmin      Level = 40
	LevelOwner      Level = 50
)

var levelNames = map[Level]string{
	LevelEmployee:   "EMPLOYEE",
	LevelSupervisor: "SUPERVISOR",
	LevelManager:    "MANAGER",
	LevelAdmin:      "ADMIN",
	LevelOwner:      "OWNER",
}

func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	if l == LevelNone {
		return "NONE"
	}
	return "LEVEL_" + strconv.Itoa(int(l))
}

// Valid informa si el nivel es uno de los definidos.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// ParseLevel acepta el nombre del nivel (OWNER, manager...).
func ParseLevel(s string) (Level, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return l, true
		}
	}
	return LevelNone, false
}

// Satisfies es la única regla de comparación: un nivel requerido L se cumple con have >= L.
func Satisfies(have, required Level) bool {
	return have >= required
}

// Allowed combina rol global y nivel de membresía; el admin global siempre pasa.
func Allowed(role Role, have, required Level) bool {
	if role.IsGlobalAdmin() {
		return true
	}
	return Satisfies(have, required)
}

// RoleIn informa si role está en la lista; el admin global siempre pasa.
// Lista vacía = sin requisito de rol.
func RoleIn(role Role, allowed []Role) bool {
	if len(allowed) == 0 || role.IsGlobalAdmin() {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// MembershipStatus estado de la membresía usuario-empresa.
type MembershipStatus string

const (
	MembershipPending   MembershipStatus = "pending"
	MembershipActive    MembershipStatus = "active"
	MembershipSuspended MembershipStatus = "suspended"
	MembershipInactive  MembershipStatus = "inactive"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipPending, MembershipActive, MembershipSuspended, MembershipInactive:
		return true
	}
	return false
}
