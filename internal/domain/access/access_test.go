package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Negocio-api/internal/domain/access"
)

func TestSatisfies_Jerarquia(t *testing.T) {
	cases := []struct {
		have, required access.Level
		want           bool
	}{
		{access.LevelOwner, access.LevelOwner, true},
		{access.LevelOwner, access.LevelEmployee, true},
		{access.LevelManager, access.LevelOwner, false},
		{access.LevelManager, access.LevelManager, true},
		{access.LevelEmployee, access.LevelSupervisor, false},
		{access.LevelNone, access.LevelEmployee, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, access.Satisfies(c.have, c.required), "%s >= %s", c.have, c.required)
	}
}

func TestAllowed_AdminGlobalSiemprePasa(t *testing.T) {
	assert.True(t, access.Allowed(access.RoleAdmin, access.LevelNone, access.LevelOwner))
	assert.False(t, access.Allowed(access.RoleUser, access.LevelManager, access.LevelOwner))
	assert.True(t, access.Allowed(access.RoleUser, access.LevelOwner, access.LevelOwner))
}

func TestRoleIn(t *testing.T) {
	assert.True(t, access.RoleIn(access.RoleUser, nil), "sin requisito de rol siempre pasa")
	assert.False(t, access.RoleIn(access.RoleUser, []access.Role{access.RoleAdmin}))
	assert.True(t, access.RoleIn(access.RoleAdmin, []access.Role{"auditor"}))
	assert.True(t, access.RoleIn("auditor", []access.Role{"auditor"}))
}

func TestParseLevelYRole(t *testing.T) {
	l, ok := access.ParseLevel("manager")
	assert.True(t, ok)
	assert.Equal(t, access.LevelManager, l)
	assert.Equal(t, "MANAGER", l.String())

	_, ok = access.ParseLevel("jefe")
	assert.False(t, ok)
	assert.Equal(t, "LEVEL_35", access.Level(35).String())
	assert.False(t, access.Level(35).Valid())

	assert.Equal(t, access.RoleAdmin, access.ParseRole(" ADMIN "))
	assert.Equal(t, access.RoleUser, access.ParseRole(""))
}

func TestMembershipStatus_Valid(t *testing.T) {
	assert.True(t, access.MembershipActive.Valid())
	assert.False(t, access.MembershipStatus("banned").Valid())
}
