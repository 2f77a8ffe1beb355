package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/memory"
)

func TestRun_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	boom := errors.New("boom")
	err := s.Run(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Companies().Create(ctx, &entity.Company{ID: "c1", Name: "Panadería"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	c, err := s.Companies().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, c, "la empresa no debe persistir tras rollback")
}

func TestRun_CommitPublica(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.Run(ctx, func(tx repository.Store) error {
		return tx.Companies().Create(ctx, &entity.Company{ID: "c1", Name: "Panadería"})
	}))

	c, err := s.Companies().GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Panadería", c.Name)
}

func TestRepos_DevuelvenCopias(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: "c1", Name: "A"}))

	c, _ := s.Companies().GetByID(ctx, "c1")
	c.Name = "mutado"

	again, _ := s.Companies().GetByID(ctx, "c1")
	assert.Equal(t, "A", again.Name)
}

func TestUnicidad(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Email: "ana@example.com"}))
	assert.ErrorIs(t, s.Users().Create(ctx, &entity.User{ID: "u2", Email: "ANA@example.com"}), domain.ErrDuplicate)

	require.NoError(t, s.Memberships().Create(ctx, &entity.Membership{ID: "m1", UserID: "u1", CompanyID: "c1"}))
	assert.ErrorIs(t, s.Memberships().Create(ctx, &entity.Membership{ID: "m2", UserID: "u1", CompanyID: "c1"}), domain.ErrDuplicate)

	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", CompanyID: "c1", SKU: "PAN-01"}))
	assert.ErrorIs(t, s.Products().Create(ctx, &entity.Product{ID: "p2", CompanyID: "c1", SKU: "PAN-01"}), domain.ErrDuplicate)
	assert.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p3", CompanyID: "c2", SKU: "PAN-01"}), "el SKU es único por empresa")

	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: "b1", CompanyID: "c1", Code: "CEN"}))
	assert.ErrorIs(t, s.Branches().Create(ctx, &entity.Branch{ID: "b2", CompanyID: "c1", Code: "CEN"}), domain.ErrDuplicate)
}

func TestInvoices_LastNumberYMarkOverdue(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := s.Invoices()

	past := time.Now().Add(-48 * time.Hour)
	for i, n := range []string{"PAN-202610-0009", "PAN-202610-0010", "PAN-202609-0099", "OTR-202610-0500"} {
		inv := &entity.Invoice{ID: n, CompanyID: "c1", Number: n, Status: entity.InvoicePending, CreatedAt: time.Now().Add(time.Duration(i) * time.Second)}
		if i == 0 {
			inv.DueDate = &past
		}
		require.NoError(t, repo.Create(ctx, inv))
	}
	assert.ErrorIs(t, repo.Create(ctx, &entity.Invoice{ID: "x", CompanyID: "c1", Number: "PAN-202610-0010"}), domain.ErrDuplicate)

	last, err := repo.LastNumber(ctx, "c1", "PAN-202610-")
	require.NoError(t, err)
	assert.Equal(t, "PAN-202610-0010", last)

	n, err := repo.MarkOverdue(ctx, "c1", time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	inv, _ := repo.GetByID(ctx, "PAN-202610-0009")
	assert.Equal(t, entity.InvoiceOverdue, inv.Status)
}

func TestMovements_MasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: "b1", CompanyID: "c1", Code: "CEN", Name: "Centro"}))
	mt, err := s.MovementTypes().GetByName(ctx, entity.MovementTypePurchase)
	require.NoError(t, err)
	require.NotNil(t, mt)

	base := time.Now()
	for i, ref := range []string{"r1", "r2", "r3"} {
		require.NoError(t, s.Movements().Create(ctx, &entity.StockMovement{
			ID: ref, BranchID: "b1", ProductID: "p1", MovementTypeID: mt.ID,
			Quantity: decimal.NewFromInt(1), Reference: ref, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := s.Movements().List(ctx, repository.MovementFilter{CompanyID: "c1"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "r3", list[0].Reference)
	assert.Equal(t, "Centro", list[0].BranchName)
	assert.True(t, list[0].IsAddition)

	other, err := s.Movements().List(ctx, repository.MovementFilter{CompanyID: "c2"})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInvoiceItems_OrdenDeInsercion(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Invoices().Create(ctx, &entity.Invoice{ID: "inv", CompanyID: "c1", Number: "PAN-202610-0001"}))

	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	require.NoError(t, s.Run(ctx, func(tx repository.Store) error {
		for _, n := range names {
			// ids aleatorios: el orden no puede depender de ellos
			if err := tx.Invoices().CreateItem(ctx, &entity.InvoiceItem{ID: uuid.NewString(), InvoiceID: "inv", ProductName: n}); err != nil {
				return err
			}
		}
		return nil
	}))

	items, err := s.Invoices().ListItems(ctx, "inv")
	require.NoError(t, err)
	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, it.ProductName)
	}
	assert.Equal(t, names, got)

	_, err = s.Invoices().DeleteItems(ctx, "inv")
	require.NoError(t, err)
	for _, n := range []string{"Z", "Y"} {
		require.NoError(t, s.Invoices().CreateItem(ctx, &entity.InvoiceItem{ID: uuid.NewString(), InvoiceID: "inv", ProductName: n}))
	}
	items, err = s.Invoices().ListItems(ctx, "inv")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Z", items[0].ProductName)
	assert.Equal(t, "Y", items[1].ProductName)
}
