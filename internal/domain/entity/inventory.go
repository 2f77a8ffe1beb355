package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory stock actual de un producto en una sucursal; valor derivado del libro de movimientos.
type Inventory struct {
	ID        string
	ProductID string
	BranchID  string
	Stock     decimal.Decimal
	UpdatedAt time.Time
}

// InventoryView fila de inventario con datos del producto para listados.
type InventoryView struct {
	Inventory
	ProductName  string
	ProductSKU   string
	ReorderLevel decimal.Decimal
}
