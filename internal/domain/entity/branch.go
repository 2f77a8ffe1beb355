package entity

import "time"

// Branch sucursal de una empresa. Code es único dentro de la empresa.
type Branch struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Address   string
	Phone     string
	ManagerID *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
