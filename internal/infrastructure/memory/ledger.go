package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

func inventoryKey(productID, branchID string) string { return productID + "|" + branchID }

type inventoryRepo struct{ v *view }

func (r inventoryRepo) Get(_ context.Context, productID, branchID string) (*entity.Inventory, error) {
	st, done := r.v.begin()
	defer done()
	return clonePtr(st.inventory[inventoryKey(productID, branchID)]), nil
}

// LockOrCreate fuera de transacción solo crea la fila; el bloqueo lo da el mutex de Run.
func (r inventoryRepo) LockOrCreate(_ context.Context, productID, branchID string) (*entity.Inventory, error) {
	st, done := r.v.begin()
	defer done()
	key := inventoryKey(productID, branchID)
	inv, ok := st.inventory[key]
	if !ok {
		inv = &entity.Inventory{
			ID:        uuid.New().String(),
			ProductID: productID,
			BranchID:  branchID,
			Stock:     decimal.Zero,
			UpdatedAt: time.Now(),
		}
		st.inventory[key] = inv
	}
	return clonePtr(inv), nil
}

func (r inventoryRepo) Save(_ context.Context, inv *entity.Inventory) error {
	st, done := r.v.begin()
	defer done()
	st.inventory[inventoryKey(inv.ProductID, inv.BranchID)] = clonePtr(inv)
	return nil
}

func (r inventoryRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.InventoryView, error) {
	st, done := r.v.begin()
	defer done()
	list := []*entity.InventoryView{}
	for _, inv := range st.inventory {
		if inv.BranchID != branchID {
			continue
		}
		iv := &entity.InventoryView{Inventory: *inv}
		if p, ok := st.products[inv.ProductID]; ok {
			iv.ProductName, iv.ProductSKU, iv.ReorderLevel = p.Name, p.SKU, p.ReorderLevel
		}
		list = append(list, iv)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductName < list[j].ProductName })
	return list, nil
}

type movementTypeRepo struct{ v *view }

func (r movementTypeRepo) GetByName(_ context.Context, name string) (*entity.StockMovementType, error) {
	st, done := r.v.begin()
	defer done()
	for _, mt := range st.movementTypes {
		if mt.Name == name {
			return clonePtr(mt), nil
		}
	}
	return nil, nil
}

func (r movementTypeRepo) List(_ context.Context) ([]*entity.StockMovementType, error) {
	st, done := r.v.begin()
	defer done()
	list := make([]*entity.StockMovementType, 0, len(st.movementTypes))
	for _, mt := range st.movementTypes {
		list = append(list, clonePtr(mt))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type movementRepo struct{ v *view }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	st, done := r.v.begin()
	defer done()
	if _, ok := st.movementTypes[m.MovementTypeID]; !ok {
		return domain.ErrReferenceMismatch
	}
	st.movements = append(st.movements, clonePtr(m))
	return nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovementView, error) {
	st, done := r.v.begin()
	defer done()
	list := []*entity.StockMovementView{}
	for _, m := range st.movements {
		b, ok := st.branches[m.BranchID]
		if !ok || (f.CompanyID != "" && b.CompanyID != f.CompanyID) {
			continue
		}
		if (f.BranchID != "" && m.BranchID != f.BranchID) ||
			(f.ProductID != "" && m.ProductID != f.ProductID) ||
			(f.Reference != "" && m.Reference != f.Reference) {
			continue
		}
		mv := &entity.StockMovementView{StockMovement: *m, BranchName: b.Name}
		if p, ok := st.products[m.ProductID]; ok {
			mv.ProductName, mv.ProductSKU = p.Name, p.SKU
		}
		if u, ok := st.users[m.UserID]; ok {
			mv.UserName = u.Name
		}
		if mt, ok := st.movementTypes[m.MovementTypeID]; ok {
			mv.TypeName, mv.IsAddition = mt.Name, mt.IsAddition
		}
		list = append(list, mv)
	}
	// Orden de inserción como desempate: los movimientos de una misma tx comparten instante.
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, f.Limit, f.Offset), nil
}
