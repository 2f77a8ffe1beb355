package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/billing"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
// Solo se genera para facturas emitidas: un borrador todavía puede cambiar.
type PDFUseCase struct {
	store     repository.Store
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando el generador.
func NewPDFUseCase(store repository.Store, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{store: store, generator: generator}
}

// DownloadInvoicePDF recupera todos los datos de la factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe o es de otra empresa.
//   - domain.ErrInvalidState     si la factura está en DRAFT.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := loadInvoice(ctx, uc.store, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv.Status == entity.InvoiceDraft {
		return nil, "", fmt.Errorf("%w: la factura %s está en borrador, emítala antes de descargar el PDF",
			domain.ErrInvalidState, inv.Number)
	}

	doc := InvoiceDocument{Invoice: inv}
	if doc.Company, err = uc.store.Companies().GetByID(ctx, companyID); err != nil || doc.Company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", orNotFound(err))
	}
	if doc.Branch, err = uc.store.Branches().GetByID(ctx, inv.BranchID); err != nil || doc.Branch == nil {
		return nil, "", fmt.Errorf("pdf: obtener sucursal: %w", orNotFound(err))
	}
	if doc.Customer, err = uc.store.Customers().GetByID(ctx, inv.CustomerID); err != nil || doc.Customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", orNotFound(err))
	}
	if doc.Items, err = uc.store.Invoices().ListItems(ctx, inv.ID); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	// El documento muestra el estado derivado (una PENDING vencida sale como OVERDUE).
	shown := *inv
	shown.Status = billing.EffectiveStatus(inv, time.Now())
	doc.Invoice = &shown

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}

func orNotFound(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrNotFound
}
