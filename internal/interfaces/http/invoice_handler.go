package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Negocio-api/internal/application/billing"
	"github.com/jhoicas/Negocio-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	uc  *billing.InvoiceUseCase
	pdf *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear factura en borrador
// @Description  Numera la factura por empresa y periodo. No mueve stock hasta emitirla.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.CreateInvoiceRequest  true  "Cabecera e ítems"
// @Success      201  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return err
	}
	var in dto.CreateInvoiceRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), c.Params(CompanyParam), p.UserID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        companyId    path   string  true   "ID de la empresa"
// @Param        status       query  string  false  "DRAFT, PENDING, PAID, OVERDUE o CANCELLED"
// @Param        branch_id    query  string  false  "Sucursal"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ListResponse[dto.InvoiceResponse]
// @Router       /api/v1/companies/{companyId}/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceFilterRequest
	if err := queryAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.Context(), c.Params(CompanyParam), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de factura con ítems
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params(CompanyParam), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar cabecera (solo DRAFT)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la factura"
// @Param        body       body  dto.UpdateInvoiceRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params(CompanyParam), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura en borrador
// @Tags         invoices
// @Security     Bearer
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la factura"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params(CompanyParam), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListItems GET /api/v1/companies/:companyId/invoices/:id/items
func (h *InvoiceHandler) ListItems(c *fiber.Ctx) error {
	out, err := h.uc.ListItems(c.Context(), c.Params(CompanyParam), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ReplaceItems reemplaza todas las líneas de un borrador y recalcula totales.
// PUT /api/v1/companies/:companyId/invoices/:id/items
func (h *InvoiceHandler) ReplaceItems(c *fiber.Ctx) error {
	var in dto.ReplaceItemsRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ReplaceItems(c.Context(), c.Params(CompanyParam), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la factura
// @Description  DRAFT->PENDING descuenta stock; cancelar una factura emitida lo devuelve.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la factura"
// @Param        body       body  dto.ChangeStatusRequest  true  "Estado destino"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/invoices/{id}/status [patch]
func (h *InvoiceHandler) ChangeStatus(c *fiber.Ctx) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return err
	}
	var in dto.ChangeStatusRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ChangeStatus(c.Context(), c.Params(CompanyParam), p.UserID, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Representación PDF de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        id         path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	body, filename, err := h.pdf.DownloadInvoicePDF(c.Context(), c.Params(CompanyParam), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}
