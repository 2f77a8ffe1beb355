package dto

import "time"

// CreateCompanyRequest body para POST /api/v1/companies.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	TaxID   string `json:"tax_id" validate:"max=50"`
	Address string `json:"address" validate:"max=255"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// UpdateCompanyRequest body para PUT /api/v1/companies/:companyId. Campos nil no se tocan.
type UpdateCompanyRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

// CompanyResponse empresa en respuestas.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddMemberRequest body para POST /api/v1/companies/:companyId/members.
type AddMemberRequest struct {
	Email       string `json:"email" validate:"required,email"`
	AccessLevel string `json:"access_level" validate:"required,oneof=OWNER ADMIN MANAGER SUPERVISOR EMPLOYEE"`
	Status      string `json:"status" validate:"omitempty,oneof=pending active suspended inactive"`
}

// UpdateMemberRequest body para PUT /api/v1/companies/:companyId/members/:memberId.
type UpdateMemberRequest struct {
	AccessLevel *string `json:"access_level" validate:"omitempty,oneof=OWNER ADMIN MANAGER SUPERVISOR EMPLOYEE"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending active suspended inactive"`
}

// MemberResponse membresía con datos del usuario.
type MemberResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyID   string    `json:"company_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	AccessLevel string    `json:"access_level"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
