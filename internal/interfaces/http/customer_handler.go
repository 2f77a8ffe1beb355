package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Negocio-api/internal/application/billing"
	"github.com/jhoicas/Negocio-api/internal/application/dto"
)

// CustomerHandler maneja clientes de la empresa (facturación).
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201  {object}  dto.CustomerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), c.Params(CompanyParam), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        companyId  path   string  true   "ID de la empresa"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ListResponse[dto.CustomerResponse]
// @Router       /api/v1/companies/{companyId}/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := queryAndValidate(c, &page); err != nil {
		return err
	}
	out, err := h.uc.List(c.Context(), c.Params(CompanyParam), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get obtiene un cliente.
// GET /api/v1/companies/:companyId/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params(CompanyParam), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update actualiza los datos de un cliente. El cliente genérico no se renombra.
// PUT /api/v1/companies/:companyId/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params(CompanyParam), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete elimina un cliente sin facturas.
// DELETE /api/v1/companies/:companyId/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params(CompanyParam), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
