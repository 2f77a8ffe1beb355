package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/v1/companies/:companyId/stock-movements.
// Quantity es la magnitud; el signo lo decide el tipo de movimiento.
type RecordMovementRequest struct {
	BranchID     string           `json:"branch_id" validate:"required,uuid"`
	ProductID    string           `json:"product_id" validate:"required,uuid"`
	MovementType string           `json:"movement_type" validate:"required,max=50"`
	Quantity     decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitCost     *decimal.Decimal `json:"unit_cost" validate:"omitempty,gte=0"` // solo compras: recalcula el costo promedio
	Reference    string           `json:"reference" validate:"max=100"`
	Note         string           `json:"note" validate:"max=500"`
}

// BulkMovementRequest body para POST .../stock-movements/bulk. Todo o nada.
type BulkMovementRequest struct {
	Movements []RecordMovementRequest `json:"movements" validate:"required,min=1,max=500,dive"`
}

// MovementFilterRequest query de GET .../stock-movements.
type MovementFilterRequest struct {
	PageRequest
	BranchID  string `query:"branch_id" validate:"omitempty,uuid"`
	ProductID string `query:"product_id" validate:"omitempty,uuid"`
	Reference string `query:"reference"`
}

// MovementResponse movimiento del libro con datos para mostrar.
type MovementResponse struct {
	ID           string          `json:"id"`
	BranchID     string          `json:"branch_id"`
	BranchName   string          `json:"branch_name"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku"`
	UserID       string          `json:"user_id"`
	UserName     string          `json:"user_name,omitempty"`
	MovementType string          `json:"movement_type"`
	IsAddition   bool            `json:"is_addition"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reference    string          `json:"reference,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RecordMovementResponse resultado de registrar un movimiento: fila del libro y stock resultante.
type RecordMovementResponse struct {
	MovementID   string          `json:"movement_id"`
	BranchID     string          `json:"branch_id"`
	ProductID    string          `json:"product_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Stock        decimal.Decimal `json:"stock"`
}

// InventoryResponse stock actual de un producto en una sucursal.
type InventoryResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSKU   string          `json:"product_sku"`
	BranchID     string          `json:"branch_id"`
	Stock        decimal.Decimal `json:"stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	BelowReorder bool            `json:"below_reorder"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementTypeResponse tipo de movimiento del catálogo.
type MovementTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsAddition  bool   `json:"is_addition"`
}
