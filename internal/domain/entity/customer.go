package entity

import "time"

// GenericCustomerName nombre del cliente genérico (ventas de mostrador) que cada empresa tiene.
const GenericCustomerName = "Consumidor Final"

// Customer cliente de una empresa.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	IsGeneric bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
