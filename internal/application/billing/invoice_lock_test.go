package billing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Negocio-api/internal/application/billing"
	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/memory"
)

// lecturas registra cómo se leyó la cabecera dentro de cada transacción.
type lecturas struct {
	mu             sync.Mutex
	plain, forUpdt int
}

type lockingTx struct {
	mem   *memory.Store
	reads *lecturas
}

func (l lockingTx) Run(ctx context.Context, fn func(tx repository.Store) error) error {
	return l.mem.Run(ctx, func(tx repository.Store) error {
		return fn(lockingStore{Store: tx, reads: l.reads})
	})
}

type lockingStore struct {
	repository.Store
	reads *lecturas
}

func (s lockingStore) Invoices() repository.InvoiceRepository {
	return lockingInvoices{InvoiceRepository: s.Store.Invoices(), reads: s.reads}
}

type lockingInvoices struct {
	repository.InvoiceRepository
	reads *lecturas
}

func (r lockingInvoices) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	r.reads.mu.Lock()
	r.reads.plain++
	r.reads.mu.Unlock()
	return r.InvoiceRepository.GetByID(ctx, id)
}

func (r lockingInvoices) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	r.reads.mu.Lock()
	r.reads.forUpdt++
	r.reads.mu.Unlock()
	return r.InvoiceRepository.GetByIDForUpdate(ctx, id)
}

// Cada escritura que decide según el estado lee la cabecera bloqueándola.
func TestEscriturasBloqueanLaFactura(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "10")
	reads := &lecturas{}
	uc := billing.NewInvoiceUseCase(f.store, lockingTx{mem: f.store, reads: reads}, nil, nil)

	inv, err := uc.Create(ctx, f.companyID, f.userID, f.request("1"))
	require.NoError(t, err)
	notes := "mostrador"
	_, err = uc.Update(ctx, f.companyID, inv.ID, dto.UpdateInvoiceRequest{Notes: &notes})
	require.NoError(t, err)
	_, err = uc.ReplaceItems(ctx, f.companyID, inv.ID, dto.ReplaceItemsRequest{Items: f.request("2").Items})
	require.NoError(t, err)
	_, err = uc.ChangeStatus(ctx, f.companyID, f.userID, inv.ID, status(entity.InvoicePending))
	require.NoError(t, err)

	draft, err := uc.Create(ctx, f.companyID, f.userID, f.request("1"))
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, f.companyID, draft.ID))

	assert.Equal(t, 5, reads.forUpdt)
	assert.Zero(t, reads.plain, "ninguna transacción de escritura lee la cabecera sin bloqueo")
}

func TestChangeStatus_EmisionConcurrenteUnSoloDescuento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "10")
	req := f.request("2")
	req.Items = append(req.Items, dto.InvoiceItemRequest{ProductID: f.productID, Quantity: d("1"), UnitPrice: d("10")})
	inv, err := f.invoices.Create(ctx, f.companyID, f.userID, req)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.invoices.ChangeStatus(ctx, f.companyID, f.userID, inv.ID, status(entity.InvoicePending)); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok, "solo una emisión gana")
	assert.True(t, f.stockLevel(t).Equal(d("7")), "stock %s", f.stockLevel(t))
	movs, err := f.ledger.ListMovements(ctx, f.companyID, dto.MovementFilterRequest{Reference: inv.Number})
	require.NoError(t, err)
	assert.Len(t, movs.Items, 2, "un movimiento venta por línea")
}
