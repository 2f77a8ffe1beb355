package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Negocio-api/internal/application/authz"
	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/access"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/infrastructure/memory"
)

func seedUser(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	require.NoError(t, s.Users().Create(context.Background(), &entity.User{
		ID: id, Email: id + "@negocio.co", Name: id, Role: access.RoleUser, Status: entity.UserStatusActive,
	}))
}

func newCompany(t *testing.T, s *memory.Store, owner string) string {
	t.Helper()
	c, err := NewCompanyUseCase(s, s).Create(context.Background(), owner, dto.CreateCompanyRequest{Name: "  Panadería  "})
	require.NoError(t, err)
	return c.ID
}

func TestCompanyCreate_OwnerYClienteGenerico(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seedUser(t, s, "ana")
	uc := NewCompanyUseCase(s, s)

	c, err := uc.Create(ctx, "ana", dto.CreateCompanyRequest{Name: "  Panadería  ", TaxID: " 900123 "})
	require.NoError(t, err)
	assert.Equal(t, "Panadería", c.Name)
	assert.Equal(t, "900123", c.TaxID)
	assert.True(t, c.Active)

	m, err := s.Memberships().Get(ctx, "ana", c.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, access.LevelOwner, m.AccessLevel)
	assert.Equal(t, access.MembershipActive, m.Status)

	generic, err := s.Customers().GetGeneric(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, generic)
	assert.Equal(t, entity.GenericCustomerName, generic.Name)

	list, err := uc.List(ctx, "ana", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestEnsureGenericCustomer_Idempotente(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a, err := EnsureGenericCustomer(ctx, s, "c1", time.Now())
	require.NoError(t, err)
	b, err := EnsureGenericCustomer(ctx, s, "c1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestCompanyDeactivate(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seedUser(t, s, "ana")
	id := newCompany(t, s, "ana")
	uc := NewCompanyUseCase(s, s)

	require.NoError(t, uc.Deactivate(ctx, id))
	require.NoError(t, uc.Deactivate(ctx, id))
	c, err := uc.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, c.Active)

	_, err = uc.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCanGrant(t *testing.T) {
	manager := authz.Principal{UserID: "m", Role: access.RoleUser, Level: access.LevelManager}
	assert.NoError(t, canGrant(manager, access.LevelManager))
	assert.NoError(t, canGrant(manager, access.LevelEmployee))
	assert.ErrorIs(t, canGrant(manager, access.LevelOwner), domain.ErrForbidden)

	root := authz.Principal{UserID: "r", Role: access.RoleAdmin}
	assert.NoError(t, canGrant(root, access.LevelOwner))
}

func TestMembershipAdd(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seedUser(t, s, "ana")
	seedUser(t, s, "luis")
	companyID := newCompany(t, s, "ana")
	uc := NewMembershipUseCase(s)
	owner := authz.Principal{UserID: "ana", Role: access.RoleUser, Level: access.LevelOwner}

	m, err := uc.Add(ctx, owner, companyID, dto.AddMemberRequest{Email: "luis@negocio.co", AccessLevel: "employee"})
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYEE", m.AccessLevel)
	assert.Equal(t, "luis", m.Name)
	assert.Equal(t, string(access.MembershipActive), m.Status)

	_, err = uc.Add(ctx, owner, companyID, dto.AddMemberRequest{Email: "luis@negocio.co", AccessLevel: "EMPLOYEE"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Add(ctx, owner, companyID, dto.AddMemberRequest{Email: "nadie@negocio.co", AccessLevel: "EMPLOYEE"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var fields domain.FieldErrors
	_, err = uc.Add(ctx, owner, companyID, dto.AddMemberRequest{Email: "luis@negocio.co", AccessLevel: "JEFE"})
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "access_level")

	members, err := uc.List(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestMembershipUpdate_NoEscala(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seedUser(t, s, "ana")
	seedUser(t, s, "luis")
	companyID := newCompany(t, s, "ana")
	uc := NewMembershipUseCase(s)
	owner := authz.Principal{UserID: "ana", Role: access.RoleUser, Level: access.LevelOwner}
	supervisor := authz.Principal{UserID: "sup", Role: access.RoleUser, Level: access.LevelSupervisor}

	m, err := uc.Add(ctx, owner, companyID, dto.AddMemberRequest{Email: "luis@negocio.co", AccessLevel: "MANAGER"})
	require.NoError(t, err)

	level := "EMPLOYEE"
	_, err = uc.Update(ctx, supervisor, companyID, m.ID, dto.UpdateMemberRequest{AccessLevel: &level})
	assert.ErrorIs(t, err, domain.ErrForbidden, "no modifica a quien tiene más nivel")

	suspended := string(access.MembershipSuspended)
	out, err := uc.Update(ctx, owner, companyID, m.ID, dto.UpdateMemberRequest{AccessLevel: &level, Status: &suspended})
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYEE", out.AccessLevel)
	assert.Equal(t, suspended, out.Status)
	assert.Equal(t, "luis@negocio.co", out.Email)

	_, err = uc.Update(ctx, owner, "otra-empresa", m.ID, dto.UpdateMemberRequest{Status: &suspended})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBranch_CodigoYEncargado(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seedUser(t, s, "ana")
	seedUser(t, s, "luis")
	companyID := newCompany(t, s, "ana")
	uc := NewBranchUseCase(s)

	manager := "ana"
	b, err := uc.Create(ctx, companyID, dto.CreateBranchRequest{Code: " cen ", Name: "Centro", ManagerID: &manager})
	require.NoError(t, err)
	assert.Equal(t, "CEN", b.Code)

	_, err = uc.Create(ctx, companyID, dto.CreateBranchRequest{Code: "CEN", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	outsider := "luis"
	_, err = uc.Create(ctx, companyID, dto.CreateBranchRequest{Code: "NOR", Name: "Norte", ManagerID: &outsider})
	assert.ErrorIs(t, err, domain.ErrReferenceMismatch)

	_, err = uc.Get(ctx, "otra-empresa", b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name := "Centro Histórico"
	up, err := uc.Update(ctx, companyID, b.ID, dto.UpdateBranchRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, up.Name)
}

func TestBranchDelete_ConRegistros(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	seedUser(t, s, "ana")
	companyID := newCompany(t, s, "ana")
	uc := NewBranchUseCase(s)

	used, err := uc.Create(ctx, companyID, dto.CreateBranchRequest{Code: "CEN", Name: "Centro"})
	require.NoError(t, err)
	free, err := uc.Create(ctx, companyID, dto.CreateBranchRequest{Code: "NOR", Name: "Norte"})
	require.NoError(t, err)
	require.NoError(t, s.Invoices().Create(ctx, &entity.Invoice{
		ID: "inv-1", CompanyID: companyID, BranchID: used.ID, Number: "PAN-202610-0001", Status: entity.InvoiceDraft,
	}))

	assert.ErrorIs(t, uc.Delete(ctx, companyID, used.ID), domain.ErrInvalidState)
	require.NoError(t, uc.Delete(ctx, companyID, free.ID))
	_, err = uc.Get(ctx, companyID, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// fakeStorage guarda lo subido en memoria.
type fakeStorage struct {
	key, contentType string
	body             []byte
	err              error
}

func (f *fakeStorage) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.key, f.contentType, f.body = key, contentType, b
	return "https://cdn.negocio.co/" + key, nil
}

func newProduct(t *testing.T, uc *ProductUseCase, companyID, sku string) *dto.ProductResponse {
	t.Helper()
	p, err := uc.Create(context.Background(), companyID, dto.CreateProductRequest{
		SKU: sku, Name: "Pan", Price: decimal.RequireFromString("1000.456"),
	})
	require.NoError(t, err)
	return p
}

func TestProductCreate(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	uc := NewProductUseCase(s, nil)

	p := newProduct(t, uc, "c1", "PAN-01")
	assert.Equal(t, "unidad", p.Unit)
	assert.True(t, p.TrackStock)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1000.46")))

	_, err := uc.Create(ctx, "c1", dto.CreateProductRequest{SKU: "PAN-01", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	var fields domain.FieldErrors
	_, err = uc.Create(ctx, "c1", dto.CreateProductRequest{
		SKU: "PAN-02", Name: "Pan", MinStock: decimal.NewFromInt(10), MaxStock: decimal.NewFromInt(5),
	})
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "min_stock")
}

func TestProductDelete_Logico(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	uc := NewProductUseCase(s, nil)
	p := newProduct(t, uc, "c1", "PAN-01")

	require.NoError(t, uc.Delete(ctx, "c1", p.ID))
	require.NoError(t, uc.Delete(ctx, "c1", p.ID))

	got, err := uc.Get(ctx, "c1", p.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)

	name := "Pan integral"
	_, err = uc.Update(ctx, "c1", p.ID, dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	visible, err := uc.List(ctx, "c1", dto.ProductFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, visible.Items)
	all, err := uc.List(ctx, "c1", dto.ProductFilterRequest{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
}

func TestProductUploadImage(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	store := &fakeStorage{}
	uc := NewProductUseCase(s, store)
	p := newProduct(t, uc, "c1", "PAN-01")
	img := []byte("\x89PNG fake")

	out, err := uc.UploadImage(ctx, "c1", p.ID, "image/png", bytes.NewReader(img), int64(len(img)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(store.key, "companies/c1/products/"+p.ID+"/"))
	assert.True(t, strings.HasSuffix(store.key, ".png"))
	assert.Equal(t, img, store.body)
	assert.Equal(t, "https://cdn.negocio.co/"+store.key, out.ImageURL)

	var fields domain.FieldErrors
	_, err = uc.UploadImage(ctx, "c1", p.ID, "image/gif", bytes.NewReader(img), int64(len(img)))
	require.ErrorAs(t, err, &fields)
	_, err = uc.UploadImage(ctx, "c1", p.ID, "image/png", bytes.NewReader(img), MaxImageSize+1)
	require.ErrorAs(t, err, &fields)

	_, err = uc.UploadImage(ctx, "c2", p.ID, "image/png", bytes.NewReader(img), int64(len(img)))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	store.err = errors.New("s3 caído")
	_, err = uc.UploadImage(ctx, "c1", p.ID, "image/png", bytes.NewReader(img), int64(len(img)))
	assert.Error(t, err)
}

func TestProductUploadImage_SinAlmacenamiento(t *testing.T) {
	uc := NewProductUseCase(memory.New(), nil)
	_, err := uc.UploadImage(context.Background(), "c1", "p1", "image/png", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
