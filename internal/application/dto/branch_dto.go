package dto

import "time"

// CreateBranchRequest body para POST /api/v1/companies/:companyId/branches.
type CreateBranchRequest struct {
	Code      string  `json:"code" validate:"required,max=20"`
	Name      string  `json:"name" validate:"required,max=120"`
	Address   string  `json:"address" validate:"max=255"`
	Phone     string  `json:"phone" validate:"max=50"`
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid"`
}

// UpdateBranchRequest body para PUT .../branches/:branchId.
type UpdateBranchRequest struct {
	Code      *string `json:"code" validate:"omitempty,min=1,max=20"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid"`
	Active    *bool   `json:"active"`
}

// BranchResponse sucursal en respuestas.
type BranchResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	ManagerID *string   `json:"manager_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
