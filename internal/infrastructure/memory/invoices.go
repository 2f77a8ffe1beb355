package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

type invoiceRepo struct{ v *view }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	st, done := r.v.begin()
	defer done()
	for _, existing := range st.invoices {
		if existing.CompanyID == inv.CompanyID && existing.Number == inv.Number {
			return fmt.Errorf("%w: número de factura %s", domain.ErrDuplicate, inv.Number)
		}
	}
	st.invoices[inv.ID] = clonePtr(inv)
	return nil
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	st, done := r.v.begin()
	defer done()
	return clonePtr(st.invoices[id]), nil
}

// GetByIDForUpdate igual que GetByID: Run ya serializa las transacciones.
func (r invoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	st.invoices[inv.ID] = clonePtr(inv)
	return nil
}

func (r invoiceRepo) Delete(_ context.Context, id string) error {
	st, done := r.v.begin()
	defer done()
	for _, it := range st.items {
		if it.InvoiceID == id {
			return fmt.Errorf("factura %s aún tiene líneas", id)
		}
	}
	delete(st.invoices, id)
	return nil
}

func (r invoiceRepo) ListByCompany(_ context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	st, done := r.v.begin()
	defer done()
	var list []*entity.Invoice
	for _, inv := range st.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		if (f.Status != "" && inv.Status != f.Status) ||
			(f.BranchID != "" && inv.BranchID != f.BranchID) ||
			(f.CustomerID != "" && inv.CustomerID != f.CustomerID) {
			continue
		}
		list = append(list, clonePtr(inv))
	}
	sortNewest(list, func(i *entity.Invoice) time.Time { return i.CreatedAt }, func(i *entity.Invoice) string { return i.Number })
	return paginate(list, f.Limit, f.Offset), nil
}

func (r invoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.invoices[item.InvoiceID]; !ok {
		return domain.ErrReferenceMismatch
	}
	st.items[item.ID] = clonePtr(item)
	st.lastItemSeq++
	st.itemSeq[item.ID] = st.lastItemSeq
	return nil
}

func (r invoiceRepo) ListItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	st, done := r.v.begin()
	defer done()
	list := []*entity.InvoiceItem{}
	for _, it := range st.items {
		if it.InvoiceID == invoiceID {
			list = append(list, clonePtr(it))
		}
	}
	sort.Slice(list, func(i, j int) bool { return st.itemSeq[list[i].ID] < st.itemSeq[list[j].ID] })
	return list, nil
}

func (r invoiceRepo) DeleteItems(_ context.Context, invoiceID string) (int64, error) {
	st, done := r.v.begin()
	defer done()
	var n int64
	for id, it := range st.items {
		if it.InvoiceID == invoiceID {
			delete(st.items, id)
			delete(st.itemSeq, id)
			n++
		}
	}
	return n, nil
}

// LockNumbering no hace nada: Run ya serializa todas las transacciones.
func (r invoiceRepo) LockNumbering(context.Context, string, string) error { return nil }

func (r invoiceRepo) LastNumber(_ context.Context, companyID, pattern string) (string, error) {
	st, done := r.v.begin()
	defer done()
	last := ""
	for _, inv := range st.invoices {
		if inv.CompanyID != companyID || !strings.HasPrefix(inv.Number, pattern) {
			continue
		}
		if len(inv.Number) > len(last) || (len(inv.Number) == len(last) && inv.Number > last) {
			last = inv.Number
		}
	}
	return last, nil
}

func (r invoiceRepo) MarkOverdue(_ context.Context, companyID string, now time.Time) (int64, error) {
	st, done := r.v.begin()
	defer done()
	var n int64
	for _, inv := range st.invoices {
		if inv.CompanyID == companyID && inv.Status == entity.InvoicePending && inv.DueDate != nil && inv.DueDate.Before(now) {
			inv.Status = entity.InvoiceOverdue
			inv.UpdatedAt = now
			n++
		}
	}
	return n, nil
}
