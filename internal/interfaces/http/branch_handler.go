package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/application/inventory"
	"github.com/jhoicas/Negocio-api/internal/application/usecase"
)

// BranchHandler maneja sucursales y su inventario.
type BranchHandler struct {
	uc     *usecase.BranchUseCase
	ledger *inventory.Ledger
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *usecase.BranchUseCase, ledger *inventory.Ledger) *BranchHandler {
	return &BranchHandler{uc: uc, ledger: ledger}
}

// Create godoc
// @Summary      Crear sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.CreateBranchRequest  true  "Datos de la sucursal"
// @Success      201  {object}  dto.BranchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/branches [post]
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
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
// @Summary      Listar sucursales
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        companyId  path   string  true   "ID de la empresa"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ListResponse[dto.BranchResponse]
// @Router       /api/v1/companies/{companyId}/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
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

// Get godoc
// @Summary      Obtener sucursal
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        branchId   path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.BranchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/branches/{branchId} [get]
func (h *BranchHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params(CompanyParam), c.Params("branchId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        branchId   path  string  true  "ID de la sucursal"
// @Param        body       body  dto.UpdateBranchRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.BranchResponse
// @Router       /api/v1/companies/{companyId}/branches/{branchId} [put]
func (h *BranchHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBranchRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params(CompanyParam), c.Params("branchId"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar sucursal sin facturas ni movimientos
// @Tags         branches
// @Security     Bearer
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        branchId   path  string  true  "ID de la sucursal"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/branches/{branchId} [delete]
func (h *BranchHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params(CompanyParam), c.Params("branchId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Inventory godoc
// @Summary      Stock actual por producto en la sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        branchId   path  string  true  "ID de la sucursal"
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/v1/companies/{companyId}/branches/{branchId}/inventory [get]
func (h *BranchHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.ledger.ListStock(c.Context(), c.Params(CompanyParam), c.Params("branchId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
