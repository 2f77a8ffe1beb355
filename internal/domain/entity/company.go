package entity

import "time"

// Company es la raíz del tenant: sucursales, productos, clientes, membresías y facturas
// pertenecen a exactamente una empresa.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT / RUC / RFC
	Address   string
	Phone     string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
