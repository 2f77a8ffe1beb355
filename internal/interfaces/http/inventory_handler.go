package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/application/inventory"
)

// InventoryHandler maneja el libro de movimientos de stock.
type InventoryHandler struct {
	ledger *inventory.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  La cantidad es positiva; el tipo de movimiento decide si suma o resta.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.RecordMovementRequest  true  "Movimiento"
// @Success      201  {object}  dto.RecordMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/stock-movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return err
	}
	var in dto.RecordMovementRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.ledger.Record(c.Context(), c.Params(CompanyParam), p.UserID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordBulk godoc
// @Summary      Registrar varios movimientos (todo o nada)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.BulkMovementRequest  true  "Movimientos"
// @Success      201  {array}   dto.RecordMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/stock-movements/bulk [post]
func (h *InventoryHandler) RecordBulk(c *fiber.Ctx) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return err
	}
	var in dto.BulkMovementRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.ledger.RecordBulk(c.Context(), c.Params(CompanyParam), p.UserID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        companyId   path   string  true   "ID de la empresa"
// @Param        branch_id   query  string  false  "Sucursal"
// @Param        product_id  query  string  false  "Producto"
// @Param        reference   query  string  false  "Referencia (p.ej. número de factura)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Router       /api/v1/companies/{companyId}/stock-movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if err := queryAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.ledger.ListMovements(c.Context(), c.Params(CompanyParam), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListTypes catálogo de tipos de movimiento.
// GET /api/v1/stock-movement-types
func (h *InventoryHandler) ListTypes(c *fiber.Ctx) error {
	out, err := h.ledger.ListTypes(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
