package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nombres de tipos de movimiento sembrados en stock_movement_types.
const (
	MovementTypePurchase  = "compra"
	MovementTypeSale      = "venta"
	MovementTypeReturn    = "devolucion"
	MovementTypeAdjustIn  = "ajuste_entrada"
	MovementTypeAdjustOut = "ajuste_salida"
	MovementTypeShrinkage = "merma"
)

// StockMovementType tipo de movimiento: suma o resta stock.
type StockMovementType struct {
	ID          string
	Name        string
	Description string
	IsAddition  bool
}

// StockMovement fila inmutable del libro de movimientos. Quantity lleva el signo del tipo.
type StockMovement struct {
	ID             string
	BranchID       string
	ProductID      string
	UserID         string
	MovementTypeID string
	Quantity       decimal.Decimal
	Reference      string
	Note           string
	CreatedAt      time.Time
}

// StockMovementView movimiento con producto, sucursal, usuario y tipo para consulta.
type StockMovementView struct {
	StockMovement
	ProductName string
	ProductSKU  string
	BranchName  string
	UserName    string
	TypeName    string
	IsAddition  bool
}
