package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado del ciclo de vida de la factura.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice cabecera de factura. Los montos se calculan en servidor a partir de las tasas.
type Invoice struct {
	ID             string
	CompanyID      string
	BranchID       string
	CustomerID     string
	UserID         string
	Number         string
	Status         InvoiceStatus
	IssueDate      time.Time
	DueDate        *time.Time
	PaidAt         *time.Time
	TaxRate        decimal.Decimal // porcentaje
	DiscountRate   decimal.Decimal // porcentaje
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InvoiceItem línea de factura. Nombre, SKU y descripción son una copia del producto
// al momento de la venta.
type InvoiceItem struct {
	ID                 string
	InvoiceID          string
	ProductID          string
	ProductName        string
	ProductSKU         string
	ProductDescription string
	Quantity           decimal.Decimal
	UnitPrice          decimal.Decimal
	DiscountAmount     decimal.Decimal
	Total              decimal.Decimal
}
