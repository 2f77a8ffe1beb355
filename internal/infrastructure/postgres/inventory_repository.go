package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

var (
	_ repository.InventoryRepository     = (*InventoryRepo)(nil)
	_ repository.MovementTypeRepository  = (*MovementTypeRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// InventoryRepo stock actual por (producto, sucursal) sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene la fila de inventario; (nil, nil) si el producto nunca tuvo stock en la sucursal.
func (r *InventoryRepo) Get(ctx context.Context, productID, branchID string) (*entity.Inventory, error) {
	query := `
		SELECT id, product_id, branch_id, stock, updated_at
		FROM inventory WHERE product_id = $1 AND branch_id = $2`
	var inv entity.Inventory
	err := r.q.QueryRow(ctx, query, productID, branchID).Scan(
		&inv.ID, &inv.ProductID, &inv.BranchID, &inv.Stock, &inv.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &inv, nil
}

// LockOrCreate inserta la fila con stock 0 si no existe y la bloquea (SELECT FOR UPDATE).
func (r *InventoryRepo) LockOrCreate(ctx context.Context, productID, branchID string) (*entity.Inventory, error) {
	insert := `
		INSERT INTO inventory (id, product_id, branch_id, stock, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (product_id, branch_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, uuid.New().String(), productID, branchID); err != nil {
		return nil, writeError("create inventory", err)
	}
	query := `
		SELECT id, product_id, branch_id, stock, updated_at
		FROM inventory WHERE product_id = $1 AND branch_id = $2
		FOR UPDATE`
	var inv entity.Inventory
	if err := r.q.QueryRow(ctx, query, productID, branchID).Scan(
		&inv.ID, &inv.ProductID, &inv.BranchID, &inv.Stock, &inv.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("lock inventory: %w", err)
	}
	return &inv, nil
}

// Save persiste el stock de una fila ya existente.
func (r *InventoryRepo) Save(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (id, product_id, branch_id, stock, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET stock = EXCLUDED.stock, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, inv.ID, inv.ProductID, inv.BranchID, inv.Stock, inv.UpdatedAt); err != nil {
		return writeError("save inventory", err)
	}
	return nil
}

// ListByBranch inventario de la sucursal con nombre, SKU y punto de reorden del producto.
func (r *InventoryRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.InventoryView, error) {
	query := `
		SELECT i.id, i.product_id, i.branch_id, i.stock, i.updated_at, p.name, p.sku, p.reorder_level
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.branch_id = $1
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	list := []*entity.InventoryView{}
	for rows.Next() {
		var v entity.InventoryView
		if err := rows.Scan(&v.ID, &v.ProductID, &v.BranchID, &v.Stock, &v.UpdatedAt,
			&v.ProductName, &v.ProductSKU, &v.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// MovementTypeRepo catálogo stock_movement_types.
type MovementTypeRepo struct {
	q Querier
}

// NewMovementTypeRepository construye el adaptador del catálogo.
func NewMovementTypeRepository(q Querier) *MovementTypeRepo {
	return &MovementTypeRepo{q: q}
}

// GetByName tipo por nombre; (nil, nil) si no existe.
func (r *MovementTypeRepo) GetByName(ctx context.Context, name string) (*entity.StockMovementType, error) {
	var mt entity.StockMovementType
	err := r.q.QueryRow(ctx,
		`SELECT id, name, description, is_addition FROM stock_movement_types WHERE name = $1`, name,
	).Scan(&mt.ID, &mt.Name, &mt.Description, &mt.IsAddition)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement type: %w", err)
	}
	return &mt, nil
}

// List catálogo completo ordenado por nombre.
func (r *MovementTypeRepo) List(ctx context.Context) ([]*entity.StockMovementType, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, is_addition FROM stock_movement_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list movement types: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockMovementType{}
	for rows.Next() {
		var mt entity.StockMovementType
		if err := rows.Scan(&mt.ID, &mt.Name, &mt.Description, &mt.IsAddition); err != nil {
			return nil, fmt.Errorf("scan movement type: %w", err)
		}
		list = append(list, &mt)
	}
	return list, rows.Err()
}
