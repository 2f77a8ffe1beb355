package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/application/usecase"
)

// CompanyHandler maneja empresas y sus miembros.
type CompanyHandler struct {
	uc      *usecase.CompanyUseCase
	members *usecase.MembershipUseCase
}

// NewCompanyHandler construye el handler inyectando los casos de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, members *usecase.MembershipUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc, members: members}
}

// Create godoc
// @Summary      Crear empresa (el creador queda como OWNER)
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return err
	}
	var in dto.CreateCompanyRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), p.UserID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Empresas del usuario
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.ListResponse[dto.CompanyResponse]
// @Router       /api/v1/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return err
	}
	var page dto.PageRequest
	if err := queryAndValidate(c, &page); err != nil {
		return err
	}
	out, err := h.uc.List(c.Context(), p.UserID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener empresa
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId} [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params(CompanyParam))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.UpdateCompanyRequest  true  "Campos a cambiar"
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/v1/companies/{companyId} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params(CompanyParam), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar empresa (solo OWNER)
// @Tags         companies
// @Security     Bearer
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      204
// @Router       /api/v1/companies/{companyId} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), c.Params(CompanyParam)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMembers godoc
// @Summary      Miembros de la empresa
// @Tags         members
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200  {array}  dto.MemberResponse
// @Router       /api/v1/companies/{companyId}/members [get]
func (h *CompanyHandler) ListMembers(c *fiber.Ctx) error {
	out, err := h.members.List(c.Context(), c.Params(CompanyParam))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddMember godoc
// @Summary      Agregar miembro por email
// @Tags         members
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.AddMemberRequest  true  "email y nivel"
// @Success      201  {object}  dto.MemberResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{companyId}/members [post]
func (h *CompanyHandler) AddMember(c *fiber.Ctx) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return err
	}
	var in dto.AddMemberRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.members.Add(c.Context(), *p, c.Params(CompanyParam), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateMember godoc
// @Summary      Cambiar nivel o estado de un miembro
// @Tags         members
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        memberId   path  string  true  "ID de la membresía"
// @Param        body       body  dto.UpdateMemberRequest  true  "nivel y/o estado"
// @Success      200  {object}  dto.MemberResponse
// @Router       /api/v1/companies/{companyId}/members/{memberId} [put]
func (h *CompanyHandler) UpdateMember(c *fiber.Ctx) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return err
	}
	var in dto.UpdateMemberRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.members.Update(c.Context(), *p, c.Params(CompanyParam), c.Params("memberId"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
