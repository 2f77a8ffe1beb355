package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Negocio-api/internal/application/auth"
	"github.com/jhoicas/Negocio-api/internal/application/authz"
	"github.com/jhoicas/Negocio-api/internal/application/billing"
	"github.com/jhoicas/Negocio-api/internal/application/inventory"
	"github.com/jhoicas/Negocio-api/internal/application/usecase"
	"github.com/jhoicas/Negocio-api/pkg/logger"
)

// BodyLimit tamaño máximo del cuerpo; cubre la imagen de producto más el multipart.
const BodyLimit = 6 * 1024 * 1024

// NewApp crea la app Fiber con el manejador de errores de la API.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    BodyLimit,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Guard        *authz.Guard
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	MembershipUC *usecase.MembershipUseCase
	BranchUC     *usecase.BranchUseCase
	ProductUC    *usecase.ProductUseCase
	CustomerUC   *billing.CustomerUseCase
	InvoiceUC    *billing.InvoiceUseCase
	InvoicePDF   *billing.PDFUseCase
	Ledger       *inventory.Ledger
	Log          *logger.Logger
	Requests     RequestObserver // opcional
	Metrics      nethttp.Handler // opcional: expone /metrics
	ServiceName  string
}

// Router registra las rutas de la API. Cada ruta pasa primero por la cadena de
// autorización con su entrada de Policies.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log, deps.Requests))

	policy := func(id string) fiber.Handler {
		p, ok := Policies[id]
		if !ok {
			panic("http: ruta sin política de acceso: " + id)
		}
		return RequirePolicy(deps.Guard, p)
	}

	app.Get("/health", policy("health"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	v1 := app.Group("/api/v1")

	authHandler := NewAuthHandler(deps.AuthUC)
	v1.Post("/auth/register", policy("auth.register"), authHandler.Register)
	v1.Post("/auth/login", policy("auth.login"), authHandler.Login)
	v1.Get("/auth/me", policy("auth.me"), authHandler.Me)
	v1.Get("/users", policy("users.list"), authHandler.ListUsers)

	inventoryHandler := NewInventoryHandler(deps.Ledger)
	v1.Get("/stock-movement-types", policy("movement_types.list"), inventoryHandler.ListTypes)

	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.MembershipUC)
	v1.Post("/companies", policy("companies.create"), companyHandler.Create)
	v1.Get("/companies", policy("companies.list"), companyHandler.List)

	// Rutas bajo una empresa: el nivel se evalúa contra la membresía en :companyId.
	company := v1.Group("/companies/:" + CompanyParam)
	company.Get("/", policy("companies.get"), companyHandler.Get)
	company.Put("/", policy("companies.update"), companyHandler.Update)
	company.Delete("/", policy("companies.delete"), companyHandler.Delete)

	company.Get("/members", policy("members.list"), companyHandler.ListMembers)
	company.Post("/members", policy("members.add"), companyHandler.AddMember)
	company.Put("/members/:memberId", policy("members.update"), companyHandler.UpdateMember)

	branchHandler := NewBranchHandler(deps.BranchUC, deps.Ledger)
	company.Get("/branches", policy("branches.list"), branchHandler.List)
	company.Post("/branches", policy("branches.create"), branchHandler.Create)
	company.Get("/branches/:branchId", policy("branches.get"), branchHandler.Get)
	company.Put("/branches/:branchId", policy("branches.update"), branchHandler.Update)
	company.Delete("/branches/:branchId", policy("branches.delete"), branchHandler.Delete)
	company.Get("/branches/:branchId/inventory", policy("inventory.list"), branchHandler.Inventory)

	productHandler := NewProductHandler(deps.ProductUC)
	company.Get("/products", policy("products.list"), productHandler.List)
	company.Post("/products", policy("products.create"), productHandler.Create)
	company.Get("/products/:id", policy("products.get"), productHandler.Get)
	company.Put("/products/:id", policy("products.update"), productHandler.Update)
	company.Delete("/products/:id", policy("products.delete"), productHandler.Delete)
	company.Post("/products/:id/image", policy("products.image"), productHandler.UploadImage)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	company.Get("/customers", policy("customers.list"), customerHandler.List)
	company.Post("/customers", policy("customers.create"), customerHandler.Create)
	company.Get("/customers/:id", policy("customers.get"), customerHandler.Get)
	company.Put("/customers/:id", policy("customers.update"), customerHandler.Update)
	company.Delete("/customers/:id", policy("customers.delete"), customerHandler.Delete)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	company.Get("/invoices", policy("invoices.list"), invoiceHandler.List)
	company.Post("/invoices", policy("invoices.create"), invoiceHandler.Create)
	company.Get("/invoices/:id", policy("invoices.get"), invoiceHandler.Get)
	company.Put("/invoices/:id", policy("invoices.update"), invoiceHandler.Update)
	company.Delete("/invoices/:id", policy("invoices.delete"), invoiceHandler.Delete)
	company.Get("/invoices/:id/items", policy("invoices.items"), invoiceHandler.ListItems)
	company.Put("/invoices/:id/items", policy("invoices.items.replace"), invoiceHandler.ReplaceItems)
	company.Patch("/invoices/:id/status", policy("invoices.status"), invoiceHandler.ChangeStatus)
	company.Get("/invoices/:id/pdf", policy("invoices.pdf"), invoiceHandler.DownloadPDF)

	company.Get("/stock-movements", policy("stock.list"), inventoryHandler.ListMovements)
	company.Post("/stock-movements", policy("stock.record"), inventoryHandler.RecordMovement)
	company.Post("/stock-movements/bulk", policy("stock.bulk"), inventoryHandler.RecordBulk)
}
