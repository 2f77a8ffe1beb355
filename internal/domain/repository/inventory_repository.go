package repository

import (
	"context"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
)

// InventoryRepository puerto del stock actual por (producto, sucursal).
type InventoryRepository interface {
	Get(ctx context.Context, productID, branchID string) (*entity.Inventory, error)
	// LockOrCreate obtiene la fila bloqueada para update, creándola con stock 0 si no existe.
	// Debe llamarse dentro de una transacción.
	LockOrCreate(ctx context.Context, productID, branchID string) (*entity.Inventory, error)
	Save(ctx context.Context, inv *entity.Inventory) error
	ListByBranch(ctx context.Context, branchID string) ([]*entity.InventoryView, error)
}

// MovementTypeRepository catálogo de tipos de movimiento.
type MovementTypeRepository interface {
	GetByName(ctx context.Context, name string) (*entity.StockMovementType, error)
	List(ctx context.Context) ([]*entity.StockMovementType, error)
}

// MovementFilter filtros de consulta del libro de movimientos.
type MovementFilter struct {
	CompanyID string
	BranchID  string
	ProductID string
	Reference string
	Limit     int
	Offset    int
}

// StockMovementRepository libro de movimientos: solo inserción y consulta.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	// List ordena del más reciente al más antiguo.
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovementView, error)
}
