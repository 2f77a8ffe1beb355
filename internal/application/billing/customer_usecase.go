package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	store repository.Store
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(store repository.Store) *CustomerUseCase {
	return &CustomerUseCase{store: store}
}

// Create crea un nuevo cliente. El cliente genérico solo lo crea el alta de la empresa.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(in.Name),
		TaxID:     strings.TrimSpace(in.TaxID),
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if customer.Name == "" {
		return nil, domain.FieldErrors{"name": "es obligatorio"}
	}
	if err := uc.store.Customers().Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente de la empresa.
func (uc *CustomerUseCase) Get(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	c, err := loadCustomer(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Update actualiza los datos del cliente. El genérico conserva su nombre.
func (uc *CustomerUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := loadCustomer(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if c.IsGeneric {
			return nil, fmt.Errorf("%w: el cliente genérico no se renombra", domain.ErrInvalidState)
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.TaxID != nil {
		c.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	c.UpdatedAt = time.Now()
	if err := uc.store.Customers().Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes de la empresa.
func (uc *CustomerUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (dto.ListResponse[dto.CustomerResponse], error) {
	page.DefaultPage()
	list, err := uc.store.Customers().ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return dto.ListResponse[dto.CustomerResponse]{}, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return dto.NewList(out, page), nil
}

// Delete borra un cliente sin facturas. El cliente genérico no se borra.
func (uc *CustomerUseCase) Delete(ctx context.Context, companyID, id string) error {
	c, err := loadCustomer(ctx, uc.store, companyID, id)
	if err != nil {
		return err
	}
	if c.IsGeneric {
		return fmt.Errorf("%w: el cliente genérico no se puede eliminar", domain.ErrInvalidState)
	}
	return uc.store.Customers().Delete(ctx, c.ID)
}

func loadCustomer(ctx context.Context, store repository.Store, companyID, id string) (*entity.Customer, error) {
	c, err := store.Customers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, fmt.Errorf("%w: cliente", domain.ErrNotFound)
	}
	return c, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		IsGeneric: c.IsGeneric,
		CreatedAt: c.CreatedAt,
	}
}
