// Package billing casos de uso de facturación: clientes, ciclo de vida de facturas y PDF.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/application/inventory"
	"github.com/jhoicas/Negocio-api/internal/application/usecase"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/billing"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
	"github.com/jhoicas/Negocio-api/pkg/logger"
)

// InvoiceUseCase flujo de facturas: alta, edición en borrador, transiciones de estado y borrado.
// Toda escritura corre en una sola transacción junto con sus efectos sobre el stock.
type InvoiceUseCase struct {
	store   repository.Store
	tx      repository.TxRunner
	log     *logger.Logger
	metrics Metrics
	now     func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. metrics puede ser nil.
func NewInvoiceUseCase(store repository.Store, tx repository.TxRunner, log *logger.Logger, metrics Metrics) *InvoiceUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{store: store, tx: tx, log: log.Component("billing"), metrics: metrics, now: time.Now}
}

// Create crea la factura en DRAFT con sus líneas y su número consecutivo.
// Sin customer_id se usa el cliente genérico de la empresa.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.FieldErrors{"items": "debe contener al menos una línea"}
	}
	now := uc.now()
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		UserID:       userID,
		Status:       entity.InvoiceDraft,
		IssueDate:    now,
		DueDate:      in.DueDate,
		TaxRate:      in.TaxRate,
		DiscountRate: in.DiscountRate,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}
	if err := checkDates(inv); err != nil {
		return nil, err
	}

	var items []*entity.InvoiceItem
	err := uc.tx.Run(ctx, func(tx repository.Store) error {
		company, err := tx.Companies().GetByID(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: empresa", domain.ErrNotFound)
		}
		if !company.Active {
			return fmt.Errorf("%w: la empresa está inactiva", domain.ErrInvalidState)
		}
		if err := checkBranch(ctx, tx, companyID, in.BranchID); err != nil {
			return err
		}
		inv.BranchID = in.BranchID
		customerID, err := resolveCustomer(ctx, tx, companyID, in.CustomerID, now)
		if err != nil {
			return err
		}
		inv.CustomerID = customerID

		items, err = buildItems(ctx, tx, companyID, inv.ID, in.Items)
		if err != nil {
			return err
		}
		if err := applyTotals(inv, items); err != nil {
			return err
		}
		inv.Number, err = allocateNumber(ctx, tx, company, now)
		if err != nil {
			return err
		}
		if err := tx.Invoices().Create(ctx, inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Invoices().CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.InvoiceCreated()
	uc.log.Info().Str("company_id", companyID).Str("invoice_id", inv.ID).Str("number", inv.Number).
		Str("total", inv.Total.String()).Msg("factura creada")
	return toInvoiceResponse(inv, items, now), nil
}

// allocateNumber asigna el siguiente número del mes bajo el bloqueo de numeración de la transacción.
func allocateNumber(ctx context.Context, tx repository.Store, company *entity.Company, now time.Time) (string, error) {
	pattern := billing.PeriodPattern(billing.CompanyPrefix(company.Name), now)
	if err := tx.Invoices().LockNumbering(ctx, company.ID, pattern); err != nil {
		return "", err
	}
	last, err := tx.Invoices().LastNumber(ctx, company.ID, pattern)
	if err != nil {
		return "", err
	}
	return billing.FormatNumber(pattern, billing.NextSequence(pattern, last)), nil
}

func checkBranch(ctx context.Context, tx repository.Store, companyID, branchID string) error {
	b, err := tx.Branches().GetByID(ctx, branchID)
	if err != nil {
		return err
	}
	if b == nil || b.CompanyID != companyID {
		return fmt.Errorf("%w: la sucursal no pertenece a la empresa", domain.ErrReferenceMismatch)
	}
	if !b.Active {
		return fmt.Errorf("%w: la sucursal %s está inactiva", domain.ErrInvalidState, b.Code)
	}
	return nil
}

func resolveCustomer(ctx context.Context, tx repository.Store, companyID, customerID string, now time.Time) (string, error) {
	if customerID == "" {
		c, err := usecase.EnsureGenericCustomer(ctx, tx, companyID, now)
		if err != nil {
			return "", err
		}
		return c.ID, nil
	}
	c, err := tx.Customers().GetByID(ctx, customerID)
	if err != nil {
		return "", err
	}
	if c == nil || c.CompanyID != companyID {
		return "", fmt.Errorf("%w: el cliente no pertenece a la empresa", domain.ErrReferenceMismatch)
	}
	return c.ID, nil
}

// buildItems valida las líneas y copia nombre, SKU y descripción del producto al momento de la venta.
func buildItems(ctx context.Context, tx repository.Store, companyID, invoiceID string, in []dto.InvoiceItemRequest) ([]*entity.InvoiceItem, error) {
	items := make([]*entity.InvoiceItem, 0, len(in))
	for i, req := range in {
		p, err := tx.Products().GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || p.CompanyID != companyID {
			return nil, fmt.Errorf("%w: línea %d, el producto no pertenece a la empresa", domain.ErrReferenceMismatch, i)
		}
		if p.IsDeleted() {
			return nil, fmt.Errorf("%w: línea %d, el producto %s está eliminado", domain.ErrInvalidState, i, p.SKU)
		}
		total, err := billing.ItemTotal(req.Quantity, req.UnitPrice, req.DiscountAmount)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i, err)
		}
		items = append(items, &entity.InvoiceItem{
			ID:                 uuid.New().String(),
			InvoiceID:          invoiceID,
			ProductID:          p.ID,
			ProductName:        p.Name,
			ProductSKU:         p.SKU,
			ProductDescription: p.Description,
			Quantity:           req.Quantity,
			UnitPrice:          req.UnitPrice,
			DiscountAmount:     req.DiscountAmount,
			Total:              total,
		})
	}
	return items, nil
}

func applyTotals(inv *entity.Invoice, items []*entity.InvoiceItem) error {
	lineTotals := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		lineTotals = append(lineTotals, it.Total)
	}
	t, err := billing.ComputeTotals(lineTotals, inv.TaxRate, inv.DiscountRate)
	if err != nil {
		return err
	}
	inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.Total = t.Subtotal, t.TaxAmount, t.DiscountAmount, t.Total
	return nil
}

func checkDates(inv *entity.Invoice) error {
	if inv.DueDate != nil && inv.DueDate.Before(inv.IssueDate) {
		return domain.FieldErrors{"due_date": "no puede ser anterior a la fecha de emisión"}
	}
	return nil
}

// Get obtiene la factura con sus líneas. El estado informado es el derivado (OVERDUE si venció).
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := loadInvoice(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.store.Invoices().ListItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items, uc.now()), nil
}

// List lista facturas de la empresa. Antes de leer persiste PENDING -> OVERDUE de las vencidas.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID string, in dto.InvoiceFilterRequest) (dto.ListResponse[dto.InvoiceResponse], error) {
	in.DefaultPage()
	now := uc.now()
	n, err := uc.store.Invoices().MarkOverdue(ctx, companyID, now)
	if err != nil {
		return dto.ListResponse[dto.InvoiceResponse]{}, err
	}
	if n > 0 {
		uc.log.Debug().Str("company_id", companyID).Int64("count", n).Msg("facturas marcadas como vencidas")
	}
	list, err := uc.store.Invoices().ListByCompany(ctx, companyID, repository.InvoiceFilter{
		Status:     entity.InvoiceStatus(in.Status),
		BranchID:   in.BranchID,
		CustomerID: in.CustomerID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return dto.ListResponse[dto.InvoiceResponse]{}, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv, nil, now))
	}
	return dto.NewList(out, in.PageRequest), nil
}

// Update modifica la cabecera de una factura en DRAFT y recalcula totales si cambian las tasas.
func (uc *InvoiceUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	var items []*entity.InvoiceItem
	now := uc.now()
	err := uc.tx.Run(ctx, func(tx repository.Store) error {
		var err error
		inv, err = lockInvoice(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if err := billing.EnsureDraft(inv); err != nil {
			return err
		}
		if in.BranchID != nil && *in.BranchID != inv.BranchID {
			if err := checkBranch(ctx, tx, companyID, *in.BranchID); err != nil {
				return err
			}
			inv.BranchID = *in.BranchID
		}
		if in.CustomerID != nil && *in.CustomerID != inv.CustomerID {
			inv.CustomerID, err = resolveCustomer(ctx, tx, companyID, *in.CustomerID, now)
			if err != nil {
				return err
			}
		}
		if in.TaxRate != nil {
			inv.TaxRate = *in.TaxRate
		}
		if in.DiscountRate != nil {
			inv.DiscountRate = *in.DiscountRate
		}
		if in.IssueDate != nil {
			inv.IssueDate = *in.IssueDate
		}
		switch {
		case in.ClearDueDate && in.DueDate != nil:
			return domain.FieldErrors{"clear_due_date": "no se puede combinar con due_date"}
		case in.ClearDueDate:
			inv.DueDate = nil
		case in.DueDate != nil:
			inv.DueDate = in.DueDate
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		if err := checkDates(inv); err != nil {
			return err
		}
		items, err = tx.Invoices().ListItems(ctx, inv.ID)
		if err != nil {
			return err
		}
		if err := applyTotals(inv, items); err != nil {
			return err
		}
		inv.UpdatedAt = now
		return tx.Invoices().Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items, now), nil
}

// ReplaceItems borra todas las líneas de una factura en DRAFT, crea las nuevas y recalcula totales.
func (uc *InvoiceUseCase) ReplaceItems(ctx context.Context, companyID, id string, in dto.ReplaceItemsRequest) (*dto.InvoiceResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.FieldErrors{"items": "debe contener al menos una línea"}
	}
	var inv *entity.Invoice
	var items []*entity.InvoiceItem
	now := uc.now()
	err := uc.tx.Run(ctx, func(tx repository.Store) error {
		var err error
		inv, err = lockInvoice(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if err := billing.EnsureDraft(inv); err != nil {
			return err
		}
		if _, err := tx.Invoices().DeleteItems(ctx, inv.ID); err != nil {
			return err
		}
		items, err = buildItems(ctx, tx, companyID, inv.ID, in.Items)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Invoices().CreateItem(ctx, item); err != nil {
				return err
			}
		}
		if err := applyTotals(inv, items); err != nil {
			return err
		}
		inv.UpdatedAt = now
		return tx.Invoices().Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items, now), nil
}

// ListItems líneas de la factura.
func (uc *InvoiceUseCase) ListItems(ctx context.Context, companyID, id string) ([]dto.InvoiceItemResponse, error) {
	inv, err := loadInvoice(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.store.Invoices().ListItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items), nil
}

// ChangeStatus aplica una transición de estado. Emitir (DRAFT -> PENDING) descuenta stock con
// movimientos "venta"; anular una factura emitida lo devuelve con "devolucion". Todo en la misma tx.
func (uc *InvoiceUseCase) ChangeStatus(ctx context.Context, companyID, userID, id string, in dto.ChangeStatusRequest) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	var items []*entity.InvoiceItem
	var from entity.InvoiceStatus
	var movements []string
	now := uc.now()
	to := entity.InvoiceStatus(in.Status)
	err := uc.tx.Run(ctx, func(tx repository.Store) error {
		var err error
		inv, err = lockInvoice(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		from = billing.EffectiveStatus(inv, now)
		if err := billing.Transition(inv, to, in.PaidAt, now); err != nil {
			return err
		}
		items, err = tx.Invoices().ListItems(ctx, inv.ID)
		if err != nil {
			return err
		}
		switch {
		case from == entity.InvoiceDraft && to == entity.InvoicePending:
			movements, err = applyStock(ctx, tx, inv, items, userID, entity.MovementTypeSale, now)
		case to == entity.InvoiceCancelled && billing.IsIssued(from):
			movements, err = applyStock(ctx, tx, inv, items, userID, entity.MovementTypeReturn, now)
		}
		if err != nil {
			return err
		}
		return tx.Invoices().Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.InvoiceStatusChanged(string(from), string(to))
	for _, t := range movements {
		uc.metrics.StockMovementRecorded(t)
	}
	uc.log.Info().Str("company_id", companyID).Str("invoice_id", inv.ID).
		Str("from", string(from)).Str("to", string(to)).Int("movements", len(movements)).Msg("estado de factura actualizado")
	return toInvoiceResponse(inv, items, now), nil
}

// applyStock registra un movimiento por línea con referencia = número de factura.
// Los productos sin control de stock no generan movimiento.
func applyStock(ctx context.Context, tx repository.Store, inv *entity.Invoice, items []*entity.InvoiceItem, userID, typeName string, now time.Time) ([]string, error) {
	var applied []string
	for i, item := range items {
		p, err := tx.Products().GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.TrackStock {
			continue
		}
		_, err = inventory.Apply(ctx, tx, inv.CompanyID, inventory.MovementInput{
			BranchID:  inv.BranchID,
			ProductID: item.ProductID,
			UserID:    userID,
			TypeName:  typeName,
			Quantity:  item.Quantity,
			Reference: inv.Number,
			Note:      "Factura " + inv.Number,
		}, now)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i, err)
		}
		applied = append(applied, typeName)
	}
	return applied, nil
}

// Delete borra una factura en DRAFT: primero sus líneas y luego la cabecera.
func (uc *InvoiceUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.tx.Run(ctx, func(tx repository.Store) error {
		inv, err := lockInvoice(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if err := billing.EnsureDraft(inv); err != nil {
			return err
		}
		if _, err := tx.Invoices().DeleteItems(ctx, inv.ID); err != nil {
			return err
		}
		return tx.Invoices().Delete(ctx, inv.ID)
	})
}

func loadInvoice(ctx context.Context, store repository.Store, companyID, id string) (*entity.Invoice, error) {
	inv, err := store.Invoices().GetByID(ctx, id)
	return ownedInvoice(inv, err, companyID)
}

// lockInvoice carga la factura bloqueándola: dos cambios concurrentes sobre la misma
// factura se serializan y el segundo ve el estado que dejó el primero.
func lockInvoice(ctx context.Context, tx repository.Store, companyID, id string) (*entity.Invoice, error) {
	inv, err := tx.Invoices().GetByIDForUpdate(ctx, id)
	return ownedInvoice(inv, err, companyID)
}

func ownedInvoice(inv *entity.Invoice, err error, companyID string) (*entity.Invoice, error) {
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, fmt.Errorf("%w: factura", domain.ErrNotFound)
	}
	return inv, nil
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem, now time.Time) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:             inv.ID,
		CompanyID:      inv.CompanyID,
		BranchID:       inv.BranchID,
		CustomerID:     inv.CustomerID,
		UserID:         inv.UserID,
		Number:         inv.Number,
		Status:         string(billing.EffectiveStatus(inv, now)),
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		PaidAt:         inv.PaidAt,
		TaxRate:        inv.TaxRate,
		DiscountRate:   inv.DiscountRate,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		Total:          inv.Total,
		Notes:          inv.Notes,
		Items:          toItemResponses(items),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

func toItemResponses(items []*entity.InvoiceItem) []dto.InvoiceItemResponse {
	if items == nil {
		return nil
	}
	out := make([]dto.InvoiceItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.InvoiceItemResponse{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			ProductName:        it.ProductName,
			ProductSKU:         it.ProductSKU,
			ProductDescription: it.ProductDescription,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			DiscountAmount:     it.DiscountAmount,
			Total:              it.Total,
		})
	}
	return out
}
