package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

var (
	_ repository.Store    = (*Store)(nil)
	_ repository.TxRunner = (*TxRunner)(nil)
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repos funcionan con cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store agrupa los repositorios sobre un mismo Querier (pool o transacción).
type Store struct {
	q Querier
}

// NewStore construye el Store sobre el pool.
func NewStore(q Querier) *Store {
	return &Store{q: q}
}

func (s *Store) Companies() repository.CompanyRepository         { return NewCompanyRepository(s.q) }
func (s *Store) Users() repository.UserRepository                 { return NewUserRepository(s.q) }
func (s *Store) Memberships() repository.MembershipRepository     { return NewMembershipRepository(s.q) }
func (s *Store) Branches() repository.BranchRepository            { return NewBranchRepository(s.q) }
func (s *Store) Products() repository.ProductRepository           { return NewProductRepository(s.q) }
func (s *Store) Customers() repository.CustomerRepository         { return NewCustomerRepository(s.q) }
func (s *Store) Inventory() repository.InventoryRepository        { return NewInventoryRepository(s.q) }
func (s *Store) MovementTypes() repository.MovementTypeRepository { return NewMovementTypeRepository(s.q) }
func (s *Store) Movements() repository.StockMovementRepository    { return NewStockMovementRepository(s.q) }
func (s *Store) Invoices() repository.InvoiceRepository           { return NewInvoiceRepository(s.q) }

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con un Store atado a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Store) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
