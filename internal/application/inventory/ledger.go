// Package inventory casos de uso del libro de movimientos de stock.
// Cada movimiento actualiza el stock derivado y agrega una fila inmutable al libro en la misma transacción.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Negocio-api/internal/domain/inventory"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
	"github.com/jhoicas/Negocio-api/pkg/logger"
)

// MovementInput un movimiento a registrar. Quantity es la magnitud (> 0); el signo lo da el tipo.
type MovementInput struct {
	BranchID  string
	ProductID string
	UserID    string
	TypeName  string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Reference string
	Note      string
}

// Applied resultado de aplicar un movimiento.
type Applied struct {
	Movement *entity.StockMovement
	Type     *entity.StockMovementType
	Stock    decimal.Decimal
}

// Ledger casos de uso del libro de stock.
type Ledger struct {
	store   repository.Store
	tx      repository.TxRunner
	log     *logger.Logger
	metrics Metrics
}

// NewLedger construye el caso de uso. metrics puede ser nil.
func NewLedger(store repository.Store, tx repository.TxRunner, log *logger.Logger, metrics Metrics) *Ledger {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{store: store, tx: tx, log: log.Component("inventory"), metrics: metrics}
}

// Apply valida y aplica un movimiento usando el Store de la transacción del caller.
// Lo usan tanto el registro manual como la emisión y anulación de facturas.
func Apply(ctx context.Context, tx repository.Store, companyID string, in MovementInput, now time.Time) (*Applied, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.FieldErrors{"quantity": "debe ser mayor que cero"}
	}
	mt, err := tx.MovementTypes().GetByName(ctx, in.TypeName)
	if err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, domain.FieldErrors{"movement_type": fmt.Sprintf("tipo de movimiento desconocido %q", in.TypeName)}
	}
	branch, err := tx.Branches().GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, fmt.Errorf("%w: la sucursal no pertenece a la empresa", domain.ErrReferenceMismatch)
	}
	product, err := tx.Products().GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, fmt.Errorf("%w: el producto no pertenece a la empresa", domain.ErrReferenceMismatch)
	}
	// Un producto eliminado solo admite devoluciones (anulación de facturas ya emitidas).
	if product.IsDeleted() && mt.Name != entity.MovementTypeReturn {
		return nil, fmt.Errorf("%w: el producto %s está eliminado", domain.ErrInvalidState, product.SKU)
	}
	user, err := tx.Users().GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario inexistente", domain.ErrReferenceMismatch)
	}

	row, err := tx.Inventory().LockOrCreate(ctx, product.ID, branch.ID)
	if err != nil {
		return nil, err
	}
	delta := domaininv.SignedQuantity(in.Quantity, mt.IsAddition)
	newStock := row.Stock.Add(delta)
	// Solo se bloquea la salida: una entrada sobre stock negativo siempre lo acerca a cero.
	if !mt.IsAddition && newStock.IsNegative() && !product.AllowBackorder {
		return nil, fmt.Errorf("%w: %s (%s) disponible %s, requerido %s",
			domain.ErrInsufficientStock, product.Name, product.SKU, row.Stock.String(), in.Quantity.String())
	}

	if mt.Name == entity.MovementTypePurchase && in.UnitCost != nil {
		product.Cost = domaininv.WeightedAverageCost(row.Stock, product.Cost, in.Quantity, *in.UnitCost)
		product.UpdatedAt = now
		if err := tx.Products().Update(ctx, product); err != nil {
			return nil, err
		}
	}

	row.Stock = newStock
	row.UpdatedAt = now
	if err := tx.Inventory().Save(ctx, row); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		BranchID:       branch.ID,
		ProductID:      product.ID,
		UserID:         user.ID,
		MovementTypeID: mt.ID,
		Quantity:       delta,
		Reference:      in.Reference,
		Note:           in.Note,
		CreatedAt:      now,
	}
	if err := tx.Movements().Create(ctx, mov); err != nil {
		return nil, err
	}
	return &Applied{Movement: mov, Type: mt, Stock: newStock}, nil
}

// Record registra un movimiento en su propia transacción.
func (l *Ledger) Record(ctx context.Context, companyID, userID string, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	var applied *Applied
	err := l.tx.Run(ctx, func(tx repository.Store) error {
		var err error
		applied, err = Apply(ctx, tx, companyID, toInput(userID, in), time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	l.metrics.StockMovementRecorded(applied.Type.Name)
	l.log.Debug().Str("company_id", companyID).Str("movement_id", applied.Movement.ID).
		Str("type", applied.Type.Name).Str("quantity", applied.Movement.Quantity.String()).Msg("movimiento registrado")
	return toRecordResponse(applied), nil
}

// RecordBulk aplica los movimientos en orden dentro de una sola transacción: todo o nada.
// El error indica la posición del primer movimiento que falló.
func (l *Ledger) RecordBulk(ctx context.Context, companyID, userID string, in dto.BulkMovementRequest) ([]dto.RecordMovementResponse, error) {
	if len(in.Movements) == 0 {
		return nil, domain.FieldErrors{"movements": "debe contener al menos un movimiento"}
	}
	out := make([]dto.RecordMovementResponse, 0, len(in.Movements))
	var applied []*Applied
	err := l.tx.Run(ctx, func(tx repository.Store) error {
		now := time.Now()
		for i, m := range in.Movements {
			a, err := Apply(ctx, tx, companyID, toInput(userID, m), now)
			if err != nil {
				return itemError(i, err)
			}
			applied = append(applied, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, a := range applied {
		l.metrics.StockMovementRecorded(a.Type.Name)
		out = append(out, *toRecordResponse(a))
	}
	l.log.Info().Str("company_id", companyID).Int("count", len(out)).Msg("movimientos registrados en lote")
	return out, nil
}

// itemError antepone la posición del movimiento; los errores de campo se re-indexan.
func itemError(i int, err error) error {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		indexed := make(domain.FieldErrors, len(fe))
		for k, v := range fe {
			indexed[fmt.Sprintf("movements[%d].%s", i, k)] = v
		}
		return indexed
	}
	return fmt.Errorf("movimiento %d: %w", i, err)
}

// ListMovements libro de la empresa, del más reciente al más antiguo.
func (l *Ledger) ListMovements(ctx context.Context, companyID string, in dto.MovementFilterRequest) (dto.ListResponse[dto.MovementResponse], error) {
	in.DefaultPage()
	list, err := l.store.Movements().List(ctx, repository.MovementFilter{
		CompanyID: companyID,
		BranchID:  in.BranchID,
		ProductID: in.ProductID,
		Reference: in.Reference,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return dto.ListResponse[dto.MovementResponse]{}, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, v := range list {
		items = append(items, dto.MovementResponse{
			ID:           v.ID,
			BranchID:     v.BranchID,
			BranchName:   v.BranchName,
			ProductID:    v.ProductID,
			ProductName:  v.ProductName,
			ProductSKU:   v.ProductSKU,
			UserID:       v.UserID,
			UserName:     v.UserName,
			MovementType: v.TypeName,
			IsAddition:   v.IsAddition,
			Quantity:     v.Quantity,
			Reference:    v.Reference,
			Note:         v.Note,
			CreatedAt:    v.CreatedAt,
		})
	}
	return dto.NewList(items, in.PageRequest), nil
}

// ListStock stock actual por producto en una sucursal de la empresa.
func (l *Ledger) ListStock(ctx context.Context, companyID, branchID string) ([]dto.InventoryResponse, error) {
	branch, err := l.store.Branches().GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != companyID {
		return nil, fmt.Errorf("%w: sucursal", domain.ErrNotFound)
	}
	rows, err := l.store.Inventory().ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InventoryResponse{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			ProductSKU:   r.ProductSKU,
			BranchID:     r.BranchID,
			Stock:        r.Stock,
			ReorderLevel: r.ReorderLevel,
			BelowReorder: domaininv.BelowReorder(r.Stock, r.ReorderLevel),
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out, nil
}

// ListTypes catálogo de tipos de movimiento.
func (l *Ledger) ListTypes(ctx context.Context) ([]dto.MovementTypeResponse, error) {
	list, err := l.store.MovementTypes().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementTypeResponse, 0, len(list))
	for _, mt := range list {
		out = append(out, dto.MovementTypeResponse{ID: mt.ID, Name: mt.Name, Description: mt.Description, IsAddition: mt.IsAddition})
	}
	return out, nil
}

func toInput(userID string, in dto.RecordMovementRequest) MovementInput {
	return MovementInput{
		BranchID:  in.BranchID,
		ProductID: in.ProductID,
		UserID:    userID,
		TypeName:  in.MovementType,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reference: in.Reference,
		Note:      in.Note,
	}
}

func toRecordResponse(a *Applied) *dto.RecordMovementResponse {
	return &dto.RecordMovementResponse{
		MovementID:   a.Movement.ID,
		BranchID:     a.Movement.BranchID,
		ProductID:    a.Movement.ProductID,
		MovementType: a.Type.Name,
		Quantity:     a.Movement.Quantity,
		Stock:        a.Stock,
	}
}
