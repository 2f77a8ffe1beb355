package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/v1/companies/:companyId/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	TaxID   string `json:"tax_id" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=255"`
}

// UpdateCustomerRequest body para PUT .../customers/:id.
type UpdateCustomerRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=50"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsGeneric bool      `json:"is_generic"`
	CreatedAt time.Time `json:"created_at"`
}

// InvoiceItemRequest línea de factura.
type InvoiceItemRequest struct {
	ProductID      string          `json:"product_id" validate:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice      decimal.Decimal `json:"unit_price" validate:"gte=0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" validate:"gte=0"`
}

// CreateInvoiceRequest body para POST /api/v1/companies/:companyId/invoices.
// Sin customer_id se factura al cliente genérico de la empresa.
type CreateInvoiceRequest struct {
	BranchID     string               `json:"branch_id" validate:"required,uuid"`
	CustomerID   string               `json:"customer_id" validate:"omitempty,uuid"`
	Items        []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxRate      decimal.Decimal      `json:"tax_rate" validate:"gte=0,lte=100"`
	DiscountRate decimal.Decimal      `json:"discount_rate" validate:"gte=0,lte=100"`
	IssueDate    *time.Time           `json:"issue_date"`
	DueDate      *time.Time           `json:"due_date"`
	Notes        string               `json:"notes" validate:"max=1000"`
}

// UpdateInvoiceRequest body para PUT .../invoices/:id (solo DRAFT). Campos nil no se tocan.
type UpdateInvoiceRequest struct {
	BranchID     *string          `json:"branch_id" validate:"omitempty,uuid"`
	CustomerID   *string          `json:"customer_id" validate:"omitempty,uuid"`
	TaxRate      *decimal.Decimal `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	DiscountRate *decimal.Decimal `json:"discount_rate" validate:"omitempty,gte=0,lte=100"`
	IssueDate    *time.Time       `json:"issue_date"`
	DueDate      *time.Time       `json:"due_date"`
	ClearDueDate bool             `json:"clear_due_date"` // quita la fecha de vencimiento; excluye due_date
	Notes        *string          `json:"notes" validate:"omitempty,max=1000"`
}

// ReplaceItemsRequest body para PUT .../invoices/:id/items.
type ReplaceItemsRequest struct {
	Items []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ChangeStatusRequest body para PATCH .../invoices/:id/status.
type ChangeStatusRequest struct {
	Status string     `json:"status" validate:"required,oneof=DRAFT PENDING PAID OVERDUE CANCELLED"`
	PaidAt *time.Time `json:"paid_at"`
}

// InvoiceFilterRequest query de GET .../invoices.
type InvoiceFilterRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=DRAFT PENDING PAID OVERDUE CANCELLED"`
	BranchID   string `query:"branch_id" validate:"omitempty,uuid"`
	CustomerID string `query:"customer_id" validate:"omitempty,uuid"`
}

// InvoiceResponse factura con sus líneas.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	CompanyID      string                `json:"company_id"`
	BranchID       string                `json:"branch_id"`
	CustomerID     string                `json:"customer_id"`
	UserID         string                `json:"user_id"`
	Number         string                `json:"number"`
	Status         string                `json:"status"`
	IssueDate      time.Time             `json:"issue_date"`
	DueDate        *time.Time            `json:"due_date,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	TaxRate        decimal.Decimal       `json:"tax_rate"`
	DiscountRate   decimal.Decimal       `json:"discount_rate"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	Total          decimal.Decimal       `json:"total"`
	Notes          string                `json:"notes,omitempty"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// InvoiceItemResponse línea con la copia de datos del producto.
type InvoiceItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	ProductSKU         string          `json:"product_sku"`
	ProductDescription string          `json:"product_description,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	Total              decimal.Decimal `json:"total"`
}
