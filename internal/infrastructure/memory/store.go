// Package memory implementa todos los repositorios en memoria de proceso.
// Run toma un snapshot del estado, ejecuta fn sobre la copia y la publica solo si fn
// retorna nil: mismo contrato todo-o-nada que el TxRunner de PostgreSQL.
// Las transacciones se serializan con un único mutex. Dentro de fn solo debe usarse
// el Store recibido como parámetro; usar el Store externo bloquearía.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

var (
	_ repository.Store    = (*Store)(nil)
	_ repository.TxRunner = (*Store)(nil)
)

type state struct {
	companies     map[string]*entity.Company
	users         map[string]*entity.User
	memberships   map[string]*entity.Membership
	branches      map[string]*entity.Branch
	products      map[string]*entity.Product
	customers     map[string]*entity.Customer
	inventory     map[string]*entity.Inventory // clave productID|branchID
	movementTypes map[string]*entity.StockMovementType
	movements     []*entity.StockMovement
	invoices      map[string]*entity.Invoice
	items         map[string]*entity.InvoiceItem
	itemSeq       map[string]int64 // orden de inserción de las líneas, como seq en SQL
	lastItemSeq   int64
}

func newState() *state {
	return &state{
		companies:     map[string]*entity.Company{},
		users:         map[string]*entity.User{},
		memberships:   map[string]*entity.Membership{},
		branches:      map[string]*entity.Branch{},
		products:      map[string]*entity.Product{},
		customers:     map[string]*entity.Customer{},
		inventory:     map[string]*entity.Inventory{},
		movementTypes: map[string]*entity.StockMovementType{},
		invoices:      map[string]*entity.Invoice{},
		items:         map[string]*entity.InvoiceItem{},
		itemSeq:       map[string]int64{},
	}
}

func (s *state) clone() *state {
	movs := make([]*entity.StockMovement, len(s.movements))
	copy(movs, s.movements) // filas inmutables: basta copiar los punteros
	return &state{
		companies:     cloneMap(s.companies),
		users:         cloneMap(s.users),
		memberships:   cloneMap(s.memberships),
		branches:      cloneMap(s.branches),
		products:      cloneMap(s.products),
		customers:     cloneMap(s.customers),
		inventory:     cloneMap(s.inventory),
		movementTypes: cloneMap(s.movementTypes),
		movements:     movs,
		invoices:      cloneMap(s.invoices),
		items:         cloneMap(s.items),
		itemSeq:       maps.Clone(s.itemSeq),
		lastItemSeq:   s.lastItemSeq,
	}
}

func cloneMap[V any](m map[string]*V) map[string]*V {
	out := make(map[string]*V, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func clonePtr[V any](v *V) *V {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// Store almacén en memoria. El valor cero no es usable: construir con New.
type Store struct {
	mu sync.Mutex
	st *state
}

// SeedMovementTypes catálogo inicial (mismo contenido que la migración SQL).
var SeedMovementTypes = []entity.StockMovementType{
	{Name: entity.MovementTypePurchase, Description: "Entrada por compra a proveedor", IsAddition: true},
	{Name: entity.MovementTypeSale, Description: "Salida por venta facturada", IsAddition: false},
	{Name: entity.MovementTypeReturn, Description: "Reingreso por anulación o devolución", IsAddition: true},
	{Name: entity.MovementTypeAdjustIn, Description: "Ajuste positivo de inventario", IsAddition: true},
	{Name: entity.MovementTypeAdjustOut, Description: "Ajuste negativo de inventario", IsAddition: false},
	{Name: entity.MovementTypeShrinkage, Description: "Pérdida, daño o vencimiento", IsAddition: false},
}

// New crea un almacén vacío con el catálogo de tipos de movimiento sembrado.
func New() *Store {
	st := newState()
	for i := range SeedMovementTypes {
		mt := SeedMovementTypes[i]
		mt.ID = uuid.New().String()
		st.movementTypes[mt.ID] = &mt
	}
	return &Store{st: st}
}

// Run ejecuta fn sobre un snapshot y lo publica si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.clone()
	if err := fn(&view{tx: snap}); err != nil {
		return err
	}
	s.st = snap
	return nil
}

// view resuelve el estado sobre el que operan los repos: el snapshot de una tx
// o el estado publicado (tomando el mutex en cada operación).
type view struct {
	store *Store
	tx    *state
}

func (v *view) begin() (*state, func()) {
	if v.tx != nil {
		return v.tx, func() {}
	}
	v.store.mu.Lock()
	return v.store.st, v.store.mu.Unlock
}

func (s *Store) pool() *view { return &view{store: s} }

func (s *Store) Companies() repository.CompanyRepository         { return s.pool().Companies() }
func (s *Store) Users() repository.UserRepository                 { return s.pool().Users() }
func (s *Store) Memberships() repository.MembershipRepository     { return s.pool().Memberships() }
func (s *Store) Branches() repository.BranchRepository            { return s.pool().Branches() }
func (s *Store) Products() repository.ProductRepository           { return s.pool().Products() }
func (s *Store) Customers() repository.CustomerRepository         { return s.pool().Customers() }
func (s *Store) Inventory() repository.InventoryRepository        { return s.pool().Inventory() }
func (s *Store) MovementTypes() repository.MovementTypeRepository { return s.pool().MovementTypes() }
func (s *Store) Movements() repository.StockMovementRepository    { return s.pool().Movements() }
func (s *Store) Invoices() repository.InvoiceRepository           { return s.pool().Invoices() }

func (v *view) Companies() repository.CompanyRepository         { return companyRepo{v} }
func (v *view) Users() repository.UserRepository                 { return userRepo{v} }
func (v *view) Memberships() repository.MembershipRepository     { return membershipRepo{v} }
func (v *view) Branches() repository.BranchRepository            { return branchRepo{v} }
func (v *view) Products() repository.ProductRepository           { return productRepo{v} }
func (v *view) Customers() repository.CustomerRepository         { return customerRepo{v} }
func (v *view) Inventory() repository.InventoryRepository        { return inventoryRepo{v} }
func (v *view) MovementTypes() repository.MovementTypeRepository { return movementTypeRepo{v} }
func (v *view) Movements() repository.StockMovementRepository    { return movementRepo{v} }
func (v *view) Invoices() repository.InvoiceRepository           { return invoiceRepo{v} }

// sortNewest ordena por CreatedAt desc con desempate por ID para resultados deterministas.
func sortNewest[T any](list []*T, createdAt func(*T) time.Time, id func(*T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := createdAt(list[i]), createdAt(list[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return id(list[i]) > id(list[j])
	})
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []*T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
