package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	Status     entity.InvoiceStatus
	BranchID   string
	CustomerID string
	Limit      int
	Offset     int
}

// InvoiceRepository puerto de facturas y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetByIDForUpdate como GetByID pero bloquea la cabecera hasta el fin de la transacción.
	// Toda escritura que dependa del estado leído debe usarla.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string, f InvoiceFilter) ([]*entity.Invoice, error)

	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	ListItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	// DeleteItems borra todas las líneas de la factura (paso explícito, no cascada implícita).
	DeleteItems(ctx context.Context, invoiceID string) (int64, error)

	// LockNumbering serializa la asignación de números de la empresa en el periodo
	// hasta el fin de la transacción actual.
	LockNumbering(ctx context.Context, companyID, pattern string) error
	// LastNumber mayor número existente que empieza con pattern, o "".
	LastNumber(ctx context.Context, companyID, pattern string) (string, error)
	// MarkOverdue persiste PENDING -> OVERDUE para facturas vencidas antes de now.
	MarkOverdue(ctx context.Context, companyID string, now time.Time) (int64, error)
}
