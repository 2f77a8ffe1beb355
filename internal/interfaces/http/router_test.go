package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Negocio-api/internal/application/auth"
	"github.com/jhoicas/Negocio-api/internal/application/billing"
	"github.com/jhoicas/Negocio-api/internal/application/inventory"
	"github.com/jhoicas/Negocio-api/internal/application/usecase"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Negocio-api/internal/interfaces/http"
	"github.com/jhoicas/Negocio-api/pkg/logger"
)

const adminEmail = "root@negocio.co"

type fakePDF struct{}

func (fakePDF) GenerateInvoicePDF(context.Context, billing.InvoiceDocument) ([]byte, error) {
	return []byte("%PDF-1.3 factura"), nil
}

// newServer arma la API completa sobre el almacén en memoria.
func newServer(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.New()
	log := logger.Nop()
	m := metrics.New()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	ledger := inventory.NewLedger(s, s, log, m)
	app := apphttp.NewApp("test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		Guard:        newGuard(s),
		AuthUC:       auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, adminEmail),
		CompanyUC:    usecase.NewCompanyUseCase(s, s),
		MembershipUC: usecase.NewMembershipUseCase(s),
		BranchUC:     usecase.NewBranchUseCase(s),
		ProductUC:    usecase.NewProductUseCase(s, nil),
		CustomerUC:   billing.NewCustomerUseCase(s),
		InvoiceUC:    billing.NewInvoiceUseCase(s, s, log, m),
		InvoicePDF:   billing.NewPDFUseCase(s, fakePDF{}),
		Ledger:       ledger,
		Log:          log,
		Requests:     m,
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ServiceName:  "negocio-api",
	})
	return app
}

type result struct {
	status int
	header http.Header
	raw    []byte
}

func (r result) object(t *testing.T) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func (r result) array(t *testing.T) []interface{} {
	t.Helper()
	var out []interface{}
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) result {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return result{status: resp.StatusCode, header: resp.Header, raw: raw}
}

// signup registra e inicia sesión; devuelve el token.
func signup(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	r := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{"email": email, "password": "secreto123", "name": "Usuario"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	r = call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": email, "password": "secreto123"})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	return r.object(t)["token"].(string)
}

func create(t *testing.T, app *fiber.App, path, token string, body interface{}) string {
	t.Helper()
	r := call(t, app, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	return r.object(t)["id"].(string)
}

func dec(t *testing.T, v interface{}) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "decimal serializado como string: %v", v)
	return decimal.RequireFromString(s)
}

func TestAPI_FlujoFacturacion(t *testing.T) {
	app := newServer(t)
	owner := signup(t, app, "duena@pan.co")

	companyID := create(t, app, "/api/v1/companies", owner, fiber.Map{"name": "Panadería"})
	base := "/api/v1/companies/" + companyID
	branchID := create(t, app, base+"/branches", owner, fiber.Map{"code": "PRIN", "name": "Principal"})
	productID := create(t, app, base+"/products", owner, fiber.Map{"sku": "PAN-01", "name": "Pan", "price": "10", "cost": "4"})

	r := call(t, app, http.MethodPost, base+"/stock-movements", owner, fiber.Map{
		"branch_id": branchID, "product_id": productID, "movement_type": "compra", "quantity": "10",
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	assert.True(t, dec(t, r.object(t)["stock"]).Equal(decimal.NewFromInt(10)))

	r = call(t, app, http.MethodPost, base+"/invoices", owner, fiber.Map{
		"branch_id": branchID,
		"tax_rate":  "10",
		"items":     []fiber.Map{{"product_id": productID, "quantity": "2", "unit_price": "10"}},
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	inv := r.object(t)
	invoiceID := inv["id"].(string)
	number := inv["number"].(string)
	assert.Equal(t, "DRAFT", inv["status"])
	assert.True(t, dec(t, inv["total"]).Equal(decimal.NewFromInt(22)))

	// El borrador no mueve stock ni genera PDF.
	r = call(t, app, http.MethodGet, base+"/branches/"+branchID+"/inventory", owner, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.True(t, dec(t, r.array(t)[0].(map[string]interface{})["stock"]).Equal(decimal.NewFromInt(10)))
	r = call(t, app, http.MethodGet, base+"/invoices/"+invoiceID+"/pdf", owner, nil)
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = call(t, app, http.MethodPatch, base+"/invoices/"+invoiceID+"/status", owner, fiber.Map{"status": "PENDING"})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.Equal(t, "PENDING", r.object(t)["status"])

	r = call(t, app, http.MethodGet, base+"/branches/"+branchID+"/inventory", owner, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.True(t, dec(t, r.array(t)[0].(map[string]interface{})["stock"]).Equal(decimal.NewFromInt(8)))

	r = call(t, app, http.MethodGet, base+"/stock-movements?reference="+number, owner, nil)
	require.Equal(t, http.StatusOK, r.status)
	items := r.object(t)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "venta", items[0].(map[string]interface{})["movement_type"])

	r = call(t, app, http.MethodGet, base+"/invoices/"+invoiceID+"/pdf", owner, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "application/pdf", r.header.Get("Content-Type"))
	assert.Contains(t, r.header.Get("Content-Disposition"), "factura_"+number+".pdf")
	assert.True(t, bytes.HasPrefix(r.raw, []byte("%PDF")))

	r = call(t, app, http.MethodDelete, base+"/invoices/"+invoiceID, owner, nil)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "INVALID_STATE", r.object(t)["code"])

	r = call(t, app, http.MethodPatch, base+"/invoices/"+invoiceID+"/status", owner, fiber.Map{"status": "DRAFT"})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "INVALID_TRANSITION", r.object(t)["code"])
}

func TestAPI_AccesoPorNivel(t *testing.T) {
	app := newServer(t)
	owner := signup(t, app, "duena@pan.co")
	employee := signup(t, app, "cajero@pan.co")
	root := signup(t, app, adminEmail)

	companyID := create(t, app, "/api/v1/companies", owner, fiber.Map{"name": "Panadería"})
	base := "/api/v1/companies/" + companyID

	r := call(t, app, http.MethodGet, base, employee, nil)
	assert.Equal(t, http.StatusForbidden, r.status, "sin membresía")

	r = call(t, app, http.MethodPost, base+"/members", owner, fiber.Map{"email": "cajero@pan.co", "access_level": "EMPLOYEE"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))

	r = call(t, app, http.MethodGet, base, employee, nil)
	assert.Equal(t, http.StatusOK, r.status)
	r = call(t, app, http.MethodGet, base+"/products", employee, nil)
	assert.Equal(t, http.StatusOK, r.status)
	r = call(t, app, http.MethodPost, base+"/products", employee, fiber.Map{"sku": "X", "name": "X"})
	assert.Equal(t, http.StatusForbidden, r.status, "crear productos exige MANAGER")
	r = call(t, app, http.MethodDelete, base, employee, nil)
	assert.Equal(t, http.StatusForbidden, r.status, "desactivar la empresa exige OWNER")

	// El admin global pasa sin membresía; /users es solo para él.
	r = call(t, app, http.MethodGet, base, root, nil)
	assert.Equal(t, http.StatusOK, r.status)
	r = call(t, app, http.MethodGet, "/api/v1/users", root, nil)
	assert.Equal(t, http.StatusOK, r.status)
	r = call(t, app, http.MethodGet, "/api/v1/users", owner, nil)
	assert.Equal(t, http.StatusForbidden, r.status)

	r = call(t, app, http.MethodGet, "/api/v1/companies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestAPI_Validacion(t *testing.T) {
	app := newServer(t)

	r := call(t, app, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{"email": "no-es-email", "password": "corta", "name": "X"})
	require.Equal(t, http.StatusBadRequest, r.status)
	body := r.object(t)
	assert.Equal(t, "VALIDATION", body["code"])
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	owner := signup(t, app, "duena@pan.co")
	companyID := create(t, app, "/api/v1/companies", owner, fiber.Map{"name": "Panadería"})
	base := "/api/v1/companies/" + companyID
	branchID := create(t, app, base+"/branches", owner, fiber.Map{"code": "PRIN", "name": "Principal"})
	productID := create(t, app, base+"/products", owner, fiber.Map{"sku": "PAN-01", "name": "Pan", "price": "10"})

	r = call(t, app, http.MethodPost, base+"/invoices", owner, fiber.Map{"branch_id": branchID, "items": []fiber.Map{}})
	require.Equal(t, http.StatusBadRequest, r.status)
	assert.Contains(t, r.object(t)["fields"], "items")

	r = call(t, app, http.MethodPost, base+"/stock-movements/bulk", owner, fiber.Map{"movements": []fiber.Map{
		{"branch_id": branchID, "product_id": productID, "movement_type": "compra", "quantity": "5"},
		{"branch_id": branchID, "product_id": productID, "movement_type": "compra", "quantity": "0"},
	}})
	require.Equal(t, http.StatusBadRequest, r.status)
	assert.Contains(t, r.object(t)["fields"], "movements[1].quantity")

	r = call(t, app, http.MethodPost, base+"/stock-movements", owner, fiber.Map{
		"branch_id": branchID, "product_id": productID, "movement_type": "venta", "quantity": "1",
	})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "INSUFFICIENT_STOCK", r.object(t)["code"])

	r = call(t, app, http.MethodPost, base+"/products", owner, fiber.Map{"sku": "PAN-01", "name": "Repetido"})
	assert.Equal(t, http.StatusConflict, r.status)

	r = call(t, app, http.MethodPost, base+"/invoices", owner, fiber.Map{"branch_id": branchID, "items": "no"})
	assert.Equal(t, http.StatusBadRequest, r.status)
}

func TestAPI_ReferenciaDeOtraEmpresa(t *testing.T) {
	app := newServer(t)
	owner := signup(t, app, "duena@pan.co")
	a := create(t, app, "/api/v1/companies", owner, fiber.Map{"name": "A"})
	b := create(t, app, "/api/v1/companies", owner, fiber.Map{"name": "B"})
	foreignBranch := create(t, app, "/api/v1/companies/"+b+"/branches", owner, fiber.Map{"code": "B1", "name": "Ajena"})
	productID := create(t, app, "/api/v1/companies/"+a+"/products", owner, fiber.Map{"sku": "P", "name": "P", "price": "1"})

	r := call(t, app, http.MethodPost, "/api/v1/companies/"+a+"/invoices", owner, fiber.Map{
		"branch_id": foreignBranch,
		"items":     []fiber.Map{{"product_id": productID, "quantity": "1", "unit_price": "1"}},
	})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "REFERENCE_MISMATCH", r.object(t)["code"])

	r = call(t, app, http.MethodGet, "/api/v1/companies/"+a+"/invoices", owner, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Empty(t, r.object(t)["items"])
}

func TestAPI_PublicasYMetricas(t *testing.T) {
	app := newServer(t)

	r := call(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "ok", r.object(t)["status"])

	r = call(t, app, http.MethodGet, "/api/v1/stock-movement-types", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	token := signup(t, app, "cajero@pan.co")
	r = call(t, app, http.MethodGet, "/api/v1/stock-movement-types", token, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Len(t, r.array(t), len(memory.SeedMovementTypes))

	r = call(t, app, http.MethodGet, "/no/existe", "", nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "NOT_FOUND", r.object(t)["code"])

	r = call(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, string(r.raw), "negocio_http_requests_total")
}
