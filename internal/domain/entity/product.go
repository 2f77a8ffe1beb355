package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto o SKU de una empresa. DeletedAt != nil => borrado lógico.
type Product struct {
	ID             string
	CompanyID      string
	SKU            string // único por empresa
	Name           string
	Description    string
	Price          decimal.Decimal
	Cost           decimal.Decimal
	Unit           string
	TrackStock     bool
	MinStock       decimal.Decimal
	MaxStock       decimal.Decimal
	ReorderLevel   decimal.Decimal
	AllowBackorder bool // permite que el stock quede negativo en ventas
	ImageURL       string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsDeleted informa si el producto fue borrado lógicamente.
func (p *Product) IsDeleted() bool { return p.DeletedAt != nil }
