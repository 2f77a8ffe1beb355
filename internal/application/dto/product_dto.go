package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/v1/companies/:companyId/products.
type CreateProductRequest struct {
	SKU            string          `json:"sku" validate:"required,max=60"`
	Name           string          `json:"name" validate:"required,max=200"`
	Description    string          `json:"description" validate:"max=1000"`
	Price          decimal.Decimal `json:"price" validate:"gte=0"`
	Cost           decimal.Decimal `json:"cost" validate:"gte=0"`
	Unit           string          `json:"unit" validate:"max=20"`
	TrackStock     *bool           `json:"track_stock"`
	MinStock       decimal.Decimal `json:"min_stock" validate:"gte=0"`
	MaxStock       decimal.Decimal `json:"max_stock" validate:"gte=0"`
	ReorderLevel   decimal.Decimal `json:"reorder_level" validate:"gte=0"`
	AllowBackorder bool            `json:"allow_backorder"`
}

// UpdateProductRequest body para PUT .../products/:id. Campos nil no se tocan.
type UpdateProductRequest struct {
	SKU            *string          `json:"sku" validate:"omitempty,min=1,max=60"`
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" validate:"omitempty,max=1000"`
	Price          *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Cost           *decimal.Decimal `json:"cost" validate:"omitempty,gte=0"`
	Unit           *string          `json:"unit" validate:"omitempty,max=20"`
	TrackStock     *bool            `json:"track_stock"`
	MinStock       *decimal.Decimal `json:"min_stock" validate:"omitempty,gte=0"`
	MaxStock       *decimal.Decimal `json:"max_stock" validate:"omitempty,gte=0"`
	ReorderLevel   *decimal.Decimal `json:"reorder_level" validate:"omitempty,gte=0"`
	AllowBackorder *bool            `json:"allow_backorder"`
}

// ProductFilterRequest query de GET .../products.
type ProductFilterRequest struct {
	PageRequest
	Search         string `query:"search"`
	IncludeDeleted bool   `query:"include_deleted"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Cost           decimal.Decimal `json:"cost"`
	Unit           string          `json:"unit"`
	TrackStock     bool            `json:"track_stock"`
	MinStock       decimal.Decimal `json:"min_stock"`
	MaxStock       decimal.Decimal `json:"max_stock"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	AllowBackorder bool            `json:"allow_backorder"`
	ImageURL       string          `json:"image_url,omitempty"`
	Deleted        bool            `json:"deleted"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
