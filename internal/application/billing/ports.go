package billing

import (
	"context"

	"github.com/jhoicas/Negocio-api/internal/application/inventory"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// Metrics contadores de negocio de facturación. Incluye los movimientos de stock
// que genera la emisión y anulación de facturas.
type Metrics interface {
	inventory.Metrics
	InvoiceCreated()
	InvoiceStatusChanged(from, to string)
}

type nopMetrics struct{}

func (nopMetrics) StockMovementRecorded(string)        {}
func (nopMetrics) InvoiceCreated()                     {}
func (nopMetrics) InvoiceStatusChanged(string, string) {}

// InvoiceDocument datos completos para la representación gráfica de una factura.
type InvoiceDocument struct {
	Invoice  *entity.Invoice
	Items    []*entity.InvoiceItem
	Company  *entity.Company
	Branch   *entity.Branch
	Customer *entity.Customer
}

// InvoicePDFGenerator genera el PDF de una factura (implementado en infrastructure/pdf).
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}
