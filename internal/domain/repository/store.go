package repository

import "context"

// Store agrupa los repositorios de una misma unidad de trabajo: el pool completo o una transacción.
// Los casos de uso reciben un Store fuera de transacción y otro dentro de TxRunner.Run.
type Store interface {
	Companies() CompanyRepository
	Users() UserRepository
	Memberships() MembershipRepository
	Branches() BranchRepository
	Products() ProductRepository
	Customers() CustomerRepository
	Inventory() InventoryRepository
	MovementTypes() MovementTypeRepository
	Movements() StockMovementRepository
	Invoices() InvoiceRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn retorna nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Store) error) error
}
