package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Negocio-api/internal/application/billing"
	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

func TestCustomers_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := billing.NewCustomerUseCase(f.store)

	c, err := uc.Create(ctx, f.companyID, dto.CreateCustomerRequest{Name: "  Tienda La 14 ", TaxID: "900123"})
	require.NoError(t, err)
	assert.Equal(t, "Tienda La 14", c.Name)
	assert.False(t, c.IsGeneric)

	email := "compras@la14.co"
	updated, err := uc.Update(ctx, f.companyID, c.ID, dto.UpdateCustomerRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)

	list, err := uc.List(ctx, f.companyID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2, "el genérico y el nuevo")

	_, err = uc.Get(ctx, f.otherCo, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, f.companyID, c.ID))
	_, err = uc.Get(ctx, f.companyID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomers_GenericoProtegido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := billing.NewCustomerUseCase(f.store)
	generic, err := f.store.Customers().GetGeneric(ctx, f.companyID)
	require.NoError(t, err)
	require.NotNil(t, generic)
	assert.Equal(t, entity.GenericCustomerName, generic.Name)

	assert.ErrorIs(t, uc.Delete(ctx, f.companyID, generic.ID), domain.ErrInvalidState)
	name := "Otro nombre"
	_, err = uc.Update(ctx, f.companyID, generic.ID, dto.UpdateCustomerRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCustomers_ConFacturasNoSeBorra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := billing.NewCustomerUseCase(f.store)
	c, err := uc.Create(ctx, f.companyID, dto.CreateCustomerRequest{Name: "Cliente"})
	require.NoError(t, err)
	r := f.request("1")
	r.CustomerID = c.ID
	_, err = f.invoices.Create(ctx, f.companyID, f.userID, r)
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, f.companyID, c.ID), domain.ErrInvalidState)
}

type fakePDF struct {
	doc billing.InvoiceDocument
	err error
}

func (g *fakePDF) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	g.doc = doc
	return []byte("%PDF-1.3"), g.err
}

func TestPDF_SoloFacturasEmitidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "5")
	gen := &fakePDF{}
	uc := billing.NewPDFUseCase(f.store, gen)

	inv, err := f.invoices.Create(ctx, f.companyID, f.userID, f.request("1"))
	require.NoError(t, err)
	_, _, err = uc.DownloadInvoicePDF(ctx, f.companyID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.invoices.ChangeStatus(ctx, f.companyID, f.userID, inv.ID, status(entity.InvoicePending))
	require.NoError(t, err)
	body, name, err := uc.DownloadInvoicePDF(ctx, f.companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_"+inv.Number+".pdf", name)
	assert.NotEmpty(t, body)
	assert.Equal(t, entity.GenericCustomerName, gen.doc.Customer.Name)
	assert.Equal(t, "PRIN", gen.doc.Branch.Code)
	assert.Len(t, gen.doc.Items, 1)

	_, _, err = uc.DownloadInvoicePDF(ctx, f.otherCo, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	gen.err = errors.New("fuente no disponible")
	_, _, err = uc.DownloadInvoicePDF(ctx, f.companyID, inv.ID)
	assert.Error(t, err)
}
