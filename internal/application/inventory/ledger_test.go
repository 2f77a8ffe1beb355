package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/application/inventory"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/access"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/memory"
)

const (
	companyID = "11111111-1111-1111-1111-111111111111"
	otherID   = "22222222-2222-2222-2222-222222222222"
	branchID  = "33333333-3333-3333-3333-333333333333"
	productID = "44444444-4444-4444-4444-444444444444"
	foreignBr = "55555555-5555-5555-5555-555555555555"
	userID    = "66666666-6666-6666-6666-666666666666"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type countingMetrics struct{ byType map[string]int }

func (m *countingMetrics) StockMovementRecorded(t string) { m.byType[t]++ }

func setup(t *testing.T) (*inventory.Ledger, *memory.Store, *countingMetrics) {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	now := time.Now()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: userID, Email: "bodega@x.com", Name: "Bodega", Role: access.RoleUser, Status: entity.UserStatusActive}))
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: companyID, Name: "Panadería", Active: true}))
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: otherID, Name: "Otra", Active: true}))
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: branchID, CompanyID: companyID, Code: "PRIN", Name: "Principal", Active: true}))
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: foreignBr, CompanyID: otherID, Code: "PRIN", Name: "Ajena", Active: true}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{
		ID: productID, CompanyID: companyID, SKU: "PAN-01", Name: "Pan", Price: d("10"), Cost: d("4"),
		Unit: "unidad", TrackStock: true, ReorderLevel: d("12"), CreatedAt: now, UpdatedAt: now,
	}))
	m := &countingMetrics{byType: map[string]int{}}
	return inventory.NewLedger(s, s, nil, m), s, m
}

func movement(typeName, qty string) dto.RecordMovementRequest {
	return dto.RecordMovementRequest{BranchID: branchID, ProductID: productID, MovementType: typeName, Quantity: d(qty)}
}

func stockOf(t *testing.T, s *memory.Store) decimal.Decimal {
	t.Helper()
	row, err := s.Inventory().Get(context.Background(), productID, branchID)
	require.NoError(t, err)
	if row == nil {
		return decimal.Zero
	}
	return row.Stock
}

func TestRecord_CompraSumaYRegistraMovimiento(t *testing.T) {
	l, s, m := setup(t)
	ctx := context.Background()

	_, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypeAdjustIn, "10"))
	require.NoError(t, err)
	assert.True(t, stockOf(t, s).Equal(d("10")))

	res, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypePurchase, "5"))
	require.NoError(t, err)
	assert.True(t, res.Stock.Equal(d("15")), res.Stock.String())
	assert.True(t, res.Quantity.Equal(d("5")))
	assert.True(t, stockOf(t, s).Equal(d("15")))

	list, err := l.ListMovements(ctx, companyID, dto.MovementFilterRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, entity.MovementTypePurchase, list.Items[0].MovementType, "el más reciente primero")
	assert.True(t, list.Items[0].Quantity.Equal(d("5")))
	assert.Equal(t, "Pan", list.Items[0].ProductName)
	assert.Equal(t, "Bodega", list.Items[0].UserName)
	assert.Equal(t, 1, m.byType[entity.MovementTypePurchase])
}

func TestRecord_SalidaConSignoNegativo(t *testing.T) {
	l, s, _ := setup(t)
	ctx := context.Background()
	_, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypePurchase, "8"))
	require.NoError(t, err)

	res, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypeShrinkage, "3"))
	require.NoError(t, err)
	assert.True(t, res.Quantity.Equal(d("-3")))
	assert.True(t, stockOf(t, s).Equal(d("5")))
}

func TestRecord_StockInsuficienteNoModificaInventario(t *testing.T) {
	l, s, m := setup(t)
	ctx := context.Background()
	_, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypePurchase, "2"))
	require.NoError(t, err)

	_, err = l.Record(ctx, companyID, userID, movement(entity.MovementTypeSale, "3"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stockOf(t, s).Equal(d("2")))

	list, err := l.ListMovements(ctx, companyID, dto.MovementFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Zero(t, m.byType[entity.MovementTypeSale])
}

func TestRecord_BackorderPermiteNegativo(t *testing.T) {
	l, s, _ := setup(t)
	ctx := context.Background()
	p, err := s.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	p.AllowBackorder = true
	require.NoError(t, s.Products().Update(ctx, p))

	res, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypeSale, "4"))
	require.NoError(t, err)
	assert.True(t, res.Stock.Equal(d("-4")))
}

func TestRecord_EntradaSobreStockNegativoSinBackorder(t *testing.T) {
	l, s, _ := setup(t)
	ctx := context.Background()
	p, err := s.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	p.AllowBackorder = true
	require.NoError(t, s.Products().Update(ctx, p))
	_, err = l.Record(ctx, companyID, userID, movement(entity.MovementTypeAdjustOut, "5"))
	require.NoError(t, err)

	p.AllowBackorder = false
	require.NoError(t, s.Products().Update(ctx, p))

	res, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypePurchase, "2"))
	require.NoError(t, err)
	assert.True(t, res.Stock.Equal(d("-3")))
	res, err = l.Record(ctx, companyID, userID, movement(entity.MovementTypeReturn, "1"))
	require.NoError(t, err)
	assert.True(t, res.Stock.Equal(d("-2")))

	_, err = l.Record(ctx, companyID, userID, movement(entity.MovementTypeShrinkage, "1"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stockOf(t, s).Equal(d("-2")))
}

func TestRecord_Validaciones(t *testing.T) {
	l, _, _ := setup(t)
	ctx := context.Background()

	_, err := l.Record(ctx, companyID, userID, movement("regalo", "1"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = l.Record(ctx, companyID, userID, movement(entity.MovementTypePurchase, "0"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	in := movement(entity.MovementTypePurchase, "1")
	in.BranchID = foreignBr
	_, err = l.Record(ctx, companyID, userID, in)
	assert.ErrorIs(t, err, domain.ErrReferenceMismatch)

	_, err = l.Record(ctx, otherID, userID, movement(entity.MovementTypePurchase, "1"))
	assert.ErrorIs(t, err, domain.ErrReferenceMismatch)

	_, err = l.Record(ctx, companyID, "no-existe", movement(entity.MovementTypePurchase, "1"))
	assert.ErrorIs(t, err, domain.ErrReferenceMismatch)
}

func TestRecord_ProductoEliminadoSoloAdmiteDevolucion(t *testing.T) {
	l, s, _ := setup(t)
	ctx := context.Background()
	p, err := s.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	now := time.Now()
	p.DeletedAt = &now
	require.NoError(t, s.Products().Update(ctx, p))

	_, err = l.Record(ctx, companyID, userID, movement(entity.MovementTypePurchase, "1"))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = l.Record(ctx, companyID, userID, movement(entity.MovementTypeReturn, "1"))
	assert.NoError(t, err)
}

func TestRecord_CompraConCostoRecalculaPromedio(t *testing.T) {
	l, s, _ := setup(t)
	ctx := context.Background()
	_, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypeAdjustIn, "10"))
	require.NoError(t, err)

	in := movement(entity.MovementTypePurchase, "10")
	cost := d("6")
	in.UnitCost = &cost
	_, err = l.Record(ctx, companyID, userID, in)
	require.NoError(t, err)

	p, err := s.Products().GetByID(ctx, productID)
	require.NoError(t, err)
	assert.True(t, p.Cost.Equal(d("5")), p.Cost.String())
}

func TestRecordBulk_TodoONada(t *testing.T) {
	l, s, m := setup(t)
	ctx := context.Background()

	_, err := l.RecordBulk(ctx, companyID, userID, dto.BulkMovementRequest{Movements: []dto.RecordMovementRequest{
		movement(entity.MovementTypePurchase, "5"),
		movement(entity.MovementTypeSale, "2"),
		movement(entity.MovementTypeSale, "10"),
	}})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "movimiento 2")
	assert.True(t, stockOf(t, s).IsZero(), "ningún movimiento del lote queda aplicado")
	assert.Empty(t, m.byType)

	list, err := l.ListMovements(ctx, companyID, dto.MovementFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestRecordBulk_ErroresDeCampoIndexados(t *testing.T) {
	l, _, _ := setup(t)
	_, err := l.RecordBulk(context.Background(), companyID, userID, dto.BulkMovementRequest{Movements: []dto.RecordMovementRequest{
		movement(entity.MovementTypePurchase, "1"),
		movement("regalo", "1"),
	}})
	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "movements[1].movement_type")
}

func TestRecordBulk_AplicaEnOrden(t *testing.T) {
	l, s, m := setup(t)
	ctx := context.Background()
	out, err := l.RecordBulk(ctx, companyID, userID, dto.BulkMovementRequest{Movements: []dto.RecordMovementRequest{
		movement(entity.MovementTypePurchase, "5"),
		movement(entity.MovementTypeSale, "5"),
		movement(entity.MovementTypeAdjustIn, "1"),
	}})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.True(t, out[0].Stock.Equal(d("5")))
	assert.True(t, out[1].Stock.IsZero())
	assert.True(t, out[2].Stock.Equal(d("1")))
	assert.True(t, stockOf(t, s).Equal(d("1")))
	assert.Equal(t, 1, m.byType[entity.MovementTypeSale])

	list, err := l.ListMovements(ctx, companyID, dto.MovementFilterRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, entity.MovementTypeAdjustIn, list.Items[0].MovementType)
	assert.Equal(t, entity.MovementTypePurchase, list.Items[2].MovementType)
}

func TestListStock_MarcaReorden(t *testing.T) {
	l, _, _ := setup(t)
	ctx := context.Background()
	_, err := l.Record(ctx, companyID, userID, movement(entity.MovementTypePurchase, "12"))
	require.NoError(t, err)

	rows, err := l.ListStock(ctx, companyID, branchID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].BelowReorder)
	assert.Equal(t, "PAN-01", rows[0].ProductSKU)

	_, err = l.ListStock(ctx, otherID, branchID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTypes(t *testing.T) {
	l, _, _ := setup(t)
	types, err := l.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, len(memory.SeedMovementTypes))
}
