package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

type companyRepo struct{ v *view }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.companies[c.ID]; ok {
		return fmt.Errorf("%w: empresa %s", domain.ErrDuplicate, c.ID)
	}
	st.companies[c.ID] = clonePtr(c)
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	st, done := r.v.begin()
	defer done()
	return clonePtr(st.companies[id]), nil
}

func (r companyRepo) Update(_ context.Context, c *entity.Company) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	st.companies[c.ID] = clonePtr(c)
	return nil
}

func (r companyRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Company, error) {
	st, done := r.v.begin()
	defer done()
	var list []*entity.Company
	for _, m := range st.memberships {
		if m.UserID != userID {
			continue
		}
		if c, ok := st.companies[m.CompanyID]; ok {
			list = append(list, clonePtr(c))
		}
	}
	sortNewest(list, func(c *entity.Company) time.Time { return c.CreatedAt }, func(c *entity.Company) string { return c.ID })
	return paginate(list, limit, offset), nil
}

type userRepo struct{ v *view }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	st, done := r.v.begin()
	defer done()
	for _, existing := range st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: el email ya está registrado", domain.ErrDuplicate)
		}
	}
	st.users[u.ID] = clonePtr(u)
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	st, done := r.v.begin()
	defer done()
	return clonePtr(st.users[id]), nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	st, done := r.v.begin()
	defer done()
	for _, u := range st.users {
		if strings.EqualFold(u.Email, email) {
			return clonePtr(u), nil
		}
	}
	return nil, nil
}

func (r userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	st, done := r.v.begin()
	defer done()
	list := make([]*entity.User, 0, len(st.users))
	for _, u := range st.users {
		list = append(list, clonePtr(u))
	}
	sortNewest(list, func(u *entity.User) time.Time { return u.CreatedAt }, func(u *entity.User) string { return u.ID })
	return paginate(list, limit, offset), nil
}

type membershipRepo struct{ v *view }

func (r membershipRepo) Create(_ context.Context, m *entity.Membership) error {
	st, done := r.v.begin()
	defer done()
	for _, existing := range st.memberships {
		if existing.UserID == m.UserID && existing.CompanyID == m.CompanyID {
			return fmt.Errorf("%w: el usuario ya es miembro de la empresa", domain.ErrDuplicate)
		}
	}
	st.memberships[m.ID] = clonePtr(m)
	return nil
}

func (r membershipRepo) Get(_ context.Context, userID, companyID string) (*entity.Membership, error) {
	st, done := r.v.begin()
	defer done()
	for _, m := range st.memberships {
		if m.UserID == userID && m.CompanyID == companyID {
			return clonePtr(m), nil
		}
	}
	return nil, nil
}

func (r membershipRepo) GetByID(_ context.Context, id string) (*entity.Membership, error) {
	st, done := r.v.begin()
	defer done()
	return clonePtr(st.memberships[id]), nil
}

func (r membershipRepo) Update(_ context.Context, m *entity.Membership) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.memberships[m.ID]; !ok {
		return domain.ErrNotFound
	}
	st.memberships[m.ID] = clonePtr(m)
	return nil
}

func (r membershipRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.MemberView, error) {
	st, done := r.v.begin()
	defer done()
	var list []*entity.MemberView
	for _, m := range st.memberships {
		if m.CompanyID != companyID {
			continue
		}
		mv := &entity.MemberView{Membership: *m}
		if u, ok := st.users[m.UserID]; ok {
			mv.UserEmail, mv.UserName = u.Email, u.Name
		}
		list = append(list, mv)
	}
	sortNewest(list, func(m *entity.MemberView) time.Time { return m.CreatedAt }, func(m *entity.MemberView) string { return m.ID })
	return list, nil
}

type branchRepo struct{ v *view }

func (r branchRepo) Create(_ context.Context, b *entity.Branch) error {
	st, done := r.v.begin()
	defer done()
	if err := branchCodeTaken(st, b); err != nil {
		return err
	}
	st.branches[b.ID] = clonePtr(b)
	return nil
}

func branchCodeTaken(st *state, b *entity.Branch) error {
	for _, existing := range st.branches {
		if existing.ID != b.ID && existing.CompanyID == b.CompanyID && strings.EqualFold(existing.Code, b.Code) {
			return fmt.Errorf("%w: el código de sucursal %q ya existe", domain.ErrDuplicate, b.Code)
		}
	}
	return nil
}

func (r branchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	st, done := r.v.begin()
	defer done()
	return clonePtr(st.branches[id]), nil
}

func (r branchRepo) Update(_ context.Context, b *entity.Branch) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.branches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := branchCodeTaken(st, b); err != nil {
		return err
	}
	st.branches[b.ID] = clonePtr(b)
	return nil
}

func (r branchRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Branch, error) {
	st, done := r.v.begin()
	defer done()
	var list []*entity.Branch
	for _, b := range st.branches {
		if b.CompanyID == companyID {
			list = append(list, clonePtr(b))
		}
	}
	sortNewest(list, func(b *entity.Branch) time.Time { return b.CreatedAt }, func(b *entity.Branch) string { return b.ID })
	return paginate(list, limit, offset), nil
}

func (r branchRepo) Delete(_ context.Context, id string) error {
	st, done := r.v.begin()
	defer done()
	inUse := false
	for _, inv := range st.inventory {
		inUse = inUse || inv.BranchID == id
	}
	for _, m := range st.movements {
		inUse = inUse || m.BranchID == id
	}
	for _, inv := range st.invoices {
		inUse = inUse || inv.BranchID == id
	}
	if inUse {
		return fmt.Errorf("%w: la sucursal tiene registros asociados", domain.ErrInvalidState)
	}
	delete(st.branches, id)
	return nil
}

type productRepo struct{ v *view }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	st, done := r.v.begin()
	defer done()
	if err := skuTaken(st, p); err != nil {
		return err
	}
	st.products[p.ID] = clonePtr(p)
	return nil
}

func skuTaken(st *state, p *entity.Product) error {
	for _, existing := range st.products {
		if existing.ID != p.ID && existing.CompanyID == p.CompanyID && strings.EqualFold(existing.SKU, p.SKU) {
			return fmt.Errorf("%w: el SKU %q ya existe", domain.ErrDuplicate, p.SKU)
		}
	}
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	st, done := r.v.begin()
	defer done()
	return clonePtr(st.products[id]), nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := skuTaken(st, p); err != nil {
		return err
	}
	st.products[p.ID] = clonePtr(p)
	return nil
}

func (r productRepo) ListByCompany(_ context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, error) {
	st, done := r.v.begin()
	defer done()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var list []*entity.Product
	for _, p := range st.products {
		if p.CompanyID != companyID || (p.IsDeleted() && !f.IncludeDeleted) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		list = append(list, clonePtr(p))
	}
	sortNewest(list, func(p *entity.Product) time.Time { return p.CreatedAt }, func(p *entity.Product) string { return p.ID })
	return paginate(list, f.Limit, f.Offset), nil
}

type customerRepo struct{ v *view }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	st, done := r.v.begin()
	defer done()
	if c.IsGeneric {
		for _, existing := range st.customers {
			if existing.CompanyID == c.CompanyID && existing.IsGeneric {
				return fmt.Errorf("%w: la empresa ya tiene cliente genérico", domain.ErrDuplicate)
			}
		}
	}
	st.customers[c.ID] = clonePtr(c)
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	st, done := r.v.begin()
	defer done()
	return clonePtr(st.customers[id]), nil
}

func (r customerRepo) GetGeneric(_ context.Context, companyID string) (*entity.Customer, error) {
	st, done := r.v.begin()
	defer done()
	for _, c := range st.customers {
		if c.CompanyID == companyID && c.IsGeneric {
			return clonePtr(c), nil
		}
	}
	return nil, nil
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	st.customers[c.ID] = clonePtr(c)
	return nil
}

func (r customerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	st, done := r.v.begin()
	defer done()
	var list []*entity.Customer
	for _, c := range st.customers {
		if c.CompanyID == companyID {
			list = append(list, clonePtr(c))
		}
	}
	sortNewest(list, func(c *entity.Customer) time.Time { return c.CreatedAt }, func(c *entity.Customer) string { return c.ID })
	return paginate(list, limit, offset), nil
}

func (r customerRepo) Delete(_ context.Context, id string) error {
	st, done := r.v.begin()
	defer done()
	for _, inv := range st.invoices {
		if inv.CustomerID == id {
			return fmt.Errorf("%w: el cliente tiene facturas asociadas", domain.ErrInvalidState)
		}
	}
	delete(st.customers, id)
	return nil
}
