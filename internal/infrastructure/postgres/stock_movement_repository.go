package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento. Las filas no se actualizan ni se borran.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, branch_id, product_id, user_id, movement_type_id, quantity, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BranchID, m.ProductID, m.UserID, m.MovementTypeID, m.Quantity,
		m.Reference, m.Note, m.CreatedAt,
	)
	if err != nil {
		return writeError("create stock movement", err)
	}
	return nil
}

// List movimientos de la empresa (vía sucursal) con producto, sucursal, usuario y tipo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovementView, error) {
	query := `
		SELECT m.id, m.branch_id, m.product_id, m.user_id, m.movement_type_id, m.quantity, m.reference, m.note, m.created_at,
			p.name, p.sku, b.name, COALESCE(u.name, ''), t.name, t.is_addition
		FROM stock_movements m
		JOIN branches b ON b.id = m.branch_id
		JOIN products p ON p.id = m.product_id
		JOIN stock_movement_types t ON t.id = m.movement_type_id
		LEFT JOIN users u ON u.id = m.user_id
		WHERE b.company_id = $1`
	args := []any{f.CompanyID}
	pos := 2
	if f.BranchID != "" {
		query += fmt.Sprintf(` AND m.branch_id = $%d`, pos)
		args = append(args, f.BranchID)
		pos++
	}
	if f.ProductID != "" {
		query += fmt.Sprintf(` AND m.product_id = $%d`, pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.Reference != "" {
		query += fmt.Sprintf(` AND m.reference = $%d`, pos)
		args = append(args, f.Reference)
		pos++
	}
	query += fmt.Sprintf(` ORDER BY m.created_at DESC, m.seq DESC LIMIT $%d OFFSET $%d`, pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockMovementView{}
	for rows.Next() {
		var v entity.StockMovementView
		if err := rows.Scan(&v.ID, &v.BranchID, &v.ProductID, &v.UserID, &v.MovementTypeID, &v.Quantity,
			&v.Reference, &v.Note, &v.CreatedAt,
			&v.ProductName, &v.ProductSKU, &v.BranchName, &v.UserName, &v.TypeName, &v.IsAddition); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
