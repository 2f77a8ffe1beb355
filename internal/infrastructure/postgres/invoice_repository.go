package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de facturas y líneas sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, branch_id, customer_id, user_id, number, status, issue_date, due_date, paid_at,
	tax_rate, discount_rate, subtotal, tax_amount, discount_amount, total, notes, created_at, updated_at`

func scanInvoice(scan func(dest ...any) error) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	err := scan(&inv.ID, &inv.CompanyID, &inv.BranchID, &inv.CustomerID, &inv.UserID, &inv.Number, &status,
		&inv.IssueDate, &inv.DueDate, &inv.PaidAt,
		&inv.TaxRate, &inv.DiscountRate, &inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.Total,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	return &inv, nil
}

// Create persiste la cabecera. Número repetido en la empresa => domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.BranchID, inv.CustomerID, inv.UserID, inv.Number, string(inv.Status),
		inv.IssueDate, inv.DueDate, inv.PaidAt,
		inv.TaxRate, inv.DiscountRate, inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.Total,
		inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return writeError("insert invoice", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id).Scan)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByIDForUpdate obtiene la cabecera con SELECT ... FOR UPDATE. Fuera de una transacción
// el bloqueo se libera al terminar la sentencia.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id).Scan)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock invoice: %w", err)
	}
	return inv, nil
}

// Update actualiza cabecera, estado y montos.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET branch_id = $2, customer_id = $3, status = $4, issue_date = $5, due_date = $6,
			paid_at = $7, tax_rate = $8, discount_rate = $9, subtotal = $10, tax_amount = $11,
			discount_amount = $12, total = $13, notes = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, inv.BranchID, inv.CustomerID, string(inv.Status), inv.IssueDate, inv.DueDate,
		inv.PaidAt, inv.TaxRate, inv.DiscountRate, inv.Subtotal, inv.TaxAmount,
		inv.DiscountAmount, inv.Total, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		return writeError("update invoice", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la cabecera; las líneas deben borrarse antes con DeleteItems.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// ListByCompany facturas de la empresa, más recientes primero.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, pos)
		args = append(args, string(f.Status))
		pos++
	}
	if f.BranchID != "" {
		query += fmt.Sprintf(` AND branch_id = $%d`, pos)
		args = append(args, f.BranchID)
		pos++
	}
	if f.CustomerID != "" {
		query += fmt.Sprintf(` AND customer_id = $%d`, pos)
		args = append(args, f.CustomerID)
		pos++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, number DESC LIMIT $%d OFFSET $%d`, pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := []*entity.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CreateItem persiste una línea de factura.
func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, product_name, product_sku, product_description,
			quantity, unit_price, discount_amount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.InvoiceID, it.ProductID, it.ProductName, it.ProductSKU, it.ProductDescription,
		it.Quantity, it.UnitPrice, it.DiscountAmount, it.Total,
	)
	if err != nil {
		return writeError("insert invoice item", err)
	}
	return nil
}

// ListItems líneas de la factura en orden de inserción.
func (r *InvoiceRepo) ListItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, product_sku, product_description,
			quantity, unit_price, discount_amount, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	list := []*entity.InvoiceItem{}
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.ProductSKU, &it.ProductDescription,
			&it.Quantity, &it.UnitPrice, &it.DiscountAmount, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteItems borra todas las líneas de la factura.
func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return 0, fmt.Errorf("delete invoice items: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// LockNumbering toma un advisory lock de transacción por (empresa, periodo).
func (r *InvoiceRepo) LockNumbering(ctx context.Context, companyID, pattern string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID+"|"+pattern); err != nil {
		return fmt.Errorf("lock invoice numbering: %w", err)
	}
	return nil
}

// LastNumber mayor número con el prefijo del periodo. Ordena por longitud para que 10000 > 9999.
func (r *InvoiceRepo) LastNumber(ctx context.Context, companyID, pattern string) (string, error) {
	query := `
		SELECT number FROM invoices
		WHERE company_id = $1 AND number LIKE $2
		ORDER BY length(number) DESC, number DESC
		LIMIT 1`
	var number string
	if err := r.q.QueryRow(ctx, query, companyID, pattern+"%").Scan(&number); err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return number, nil
}

// MarkOverdue PENDING con due_date vencida pasa a OVERDUE.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, companyID string, now time.Time) (int64, error) {
	query := `
		UPDATE invoices SET status = $3, updated_at = $4
		WHERE company_id = $1 AND status = $2 AND due_date IS NOT NULL AND due_date < $4`
	cmd, err := r.q.Exec(ctx, query, companyID, string(entity.InvoicePending), string(entity.InvoiceOverdue), now)
	if err != nil {
		return 0, fmt.Errorf("mark overdue invoices: %w", err)
	}
	return cmd.RowsAffected(), nil
}
