package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Negocio-api/internal/application/authz"
	"github.com/jhoicas/Negocio-api/internal/domain/access"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Negocio-api/internal/interfaces/http"
	"github.com/jhoicas/Negocio-api/pkg/jwt"
	"github.com/jhoicas/Negocio-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "negocio-api-test"
	testExpMin    = 60
	testCompanyID = "00000000-0000-0000-0000-0000000000c1"
)

func newGuard(s *memory.Store) *authz.Guard {
	return authz.NewGuard(s.Users(), s.Memberships(), func(tok string) (string, string, error) {
		return jwt.Parse(testJWTSecret, tok)
	})
}

// seedUser crea un usuario activo y, si level > 0, su membresía en testCompanyID.
func seedUser(t *testing.T, s *memory.Store, id string, role access.Role, level access.Level) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Users().Create(ctx, &entity.User{
		ID: id, Email: id + "@test.co", Name: id, Role: role,
		Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	if level == access.LevelNone {
		return
	}
	require.NoError(t, s.Memberships().Create(ctx, &entity.Membership{
		ID: "m-" + id, UserID: id, CompanyID: testCompanyID, AccessLevel: level,
		Status: access.MembershipActive, CreatedAt: now, UpdatedAt: now,
	}))
}

// buildTestApp expone /companies/:companyId/protected con la política dada.
func buildTestApp(s *memory.Store, p authz.Policy) *fiber.App {
	app := apphttp.NewApp("test", logger.Nop())
	app.Get("/companies/:companyId/protected",
		apphttp.RequirePolicy(newGuard(s), p),
		func(c *fiber.Ctx) error {
			principal := apphttp.GetPrincipal(c)
			if principal == nil {
				return c.JSON(fiber.Map{"ok": true})
			}
			return c.JSON(fiber.Map{
				"ok":      true,
				"user_id": principal.UserID,
				"role":    string(principal.Role),
				"level":   principal.Level.String(),
			})
		},
	)
	return app
}

func tokenFor(t *testing.T, userID string, role access.Role) string {
	t.Helper()
	tok, err := jwt.Generate(testJWTSecret, userID, string(role), testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/companies/"+testCompanyID+"/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	code, _ := body["code"].(string)
	return code
}

// ──────────────────────────────────────────────────────────────────────────────
// Ruta pública y credencial
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePolicy_PublicaSinToken(t *testing.T) {
	app := buildTestApp(memory.New(), authz.Policy{Public: true})
	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePolicy_PublicaIgnoraTokenInvalido(t *testing.T) {
	app := buildTestApp(memory.New(), authz.Policy{Public: true})
	resp := doRequest(t, app, "Bearer basura")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePolicy_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(memory.New(), authz.Policy{})
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))
}

func TestRequirePolicy_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(memory.New(), authz.Policy{})
	for _, h := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, h)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, h)
		resp.Body.Close()
	}
}

func TestRequirePolicy_UsuarioInexistente_Retorna401(t *testing.T) {
	app := buildTestApp(memory.New(), authz.Policy{})
	resp := doRequest(t, app, tokenFor(t, "fantasma", access.RoleUser))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequirePolicy_TokenExpirado_Retorna401(t *testing.T) {
	s := memory.New()
	seedUser(t, s, "u1", access.RoleUser, access.LevelNone)
	tok, err := jwt.Generate(testJWTSecret, "u1", "user", testIssuer, -1)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(s, authz.Policy{}), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rol global
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePolicy_AdminAccedeRutaAdmin(t *testing.T) {
	s := memory.New()
	seedUser(t, s, "root", access.RoleAdmin, access.LevelNone)
	app := buildTestApp(s, authz.Policy{Roles: []access.Role{access.RoleAdmin}})

	resp := doRequest(t, app, tokenFor(t, "root", access.RoleAdmin))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin", body["role"])
}

func TestRequirePolicy_UsuarioBloqueadoEnRutaAdmin(t *testing.T) {
	s := memory.New()
	seedUser(t, s, "u1", access.RoleUser, access.LevelOwner)
	app := buildTestApp(s, authz.Policy{Roles: []access.Role{access.RoleAdmin}})

	resp := doRequest(t, app, tokenFor(t, "u1", access.RoleUser))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// El rol sale del usuario almacenado, no del claim del token.
func TestRequirePolicy_RolDelTokenNoEleva(t *testing.T) {
	s := memory.New()
	seedUser(t, s, "u1", access.RoleUser, access.LevelNone)
	app := buildTestApp(s, authz.Policy{Roles: []access.Role{access.RoleAdmin}})

	resp := doRequest(t, app, tokenFor(t, "u1", access.RoleAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Nivel de acceso por empresa
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePolicy_NivelOwner(t *testing.T) {
	s := memory.New()
	seedUser(t, s, "owner", access.RoleUser, access.LevelOwner)
	seedUser(t, s, "manager", access.RoleUser, access.LevelManager)
	seedUser(t, s, "outsider", access.RoleUser, access.LevelNone)
	seedUser(t, s, "root", access.RoleAdmin, access.LevelNone)
	app := buildTestApp(s, authz.Policy{Level: access.LevelOwner})

	cases := []struct {
		user   string
		role   access.Role
		status int
	}{
		{"owner", access.RoleUser, http.StatusOK},
		{"manager", access.RoleUser, http.StatusForbidden},
		{"outsider", access.RoleUser, http.StatusForbidden},
		{"root", access.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.user, func(t *testing.T) {
			resp := doRequest(t, app, tokenFor(t, tc.user, tc.role))
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequirePolicy_MembresiaSuspendida(t *testing.T) {
	s := memory.New()
	seedUser(t, s, "u1", access.RoleUser, access.LevelNone)
	require.NoError(t, s.Memberships().Create(context.Background(), &entity.Membership{
		ID: "m1", UserID: "u1", CompanyID: testCompanyID,
		AccessLevel: access.LevelOwner, Status: access.MembershipSuspended,
	}))
	resp := doRequest(t, buildTestApp(s, authz.Policy{Level: access.LevelEmployee}), tokenFor(t, "u1", access.RoleUser))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequirePolicy_PrincipalConNivel(t *testing.T) {
	s := memory.New()
	seedUser(t, s, "sup", access.RoleUser, access.LevelSupervisor)
	app := buildTestApp(s, authz.Policy{Level: access.LevelEmployee})

	resp := doRequest(t, app, tokenFor(t, "sup", access.RoleUser))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "sup", body["user_id"])
	assert.Equal(t, "SUPERVISOR", body["level"])
}

// Rol y nivel se evalúan por separado: cumplir uno no exime del otro.
func TestRequirePolicy_RolYNivel(t *testing.T) {
	s := memory.New()
	seedUser(t, s, "owner", access.RoleUser, access.LevelOwner)
	app := buildTestApp(s, authz.Policy{Roles: []access.Role{access.RoleAdmin}, Level: access.LevelEmployee})

	resp := doRequest(t, app, tokenFor(t, "owner", access.RoleUser))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
