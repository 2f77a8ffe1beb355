package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/access"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

// CompanyUseCase alta y mantenimiento de empresas.
type CompanyUseCase struct {
	store repository.Store
	tx    repository.TxRunner
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(store repository.Store, tx repository.TxRunner) *CompanyUseCase {
	return &CompanyUseCase{store: store, tx: tx}
}

// Create crea la empresa, la membresía OWNER del creador y el cliente genérico en una sola transacción.
func (uc *CompanyUseCase) Create(ctx context.Context, userID string, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		TaxID:     strings.TrimSpace(in.TaxID),
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(tx repository.Store) error {
		if err := tx.Companies().Create(ctx, company); err != nil {
			return err
		}
		owner := &entity.Membership{
			ID:          uuid.New().String(),
			UserID:      userID,
			CompanyID:   company.ID,
			AccessLevel: access.LevelOwner,
			Status:      access.MembershipActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Memberships().Create(ctx, owner); err != nil {
			return err
		}
		_, err := EnsureGenericCustomer(ctx, tx, company.ID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// EnsureGenericCustomer devuelve el cliente "Consumidor Final" de la empresa y lo crea si falta.
// Debe llamarse con el Store de una transacción.
func EnsureGenericCustomer(ctx context.Context, tx repository.Store, companyID string, now time.Time) (*entity.Customer, error) {
	c, err := tx.Customers().GetGeneric(ctx, companyID)
	if err != nil || c != nil {
		return c, err
	}
	c = &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      entity.GenericCustomerName,
		IsGeneric: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Customers().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get obtiene una empresa por ID.
func (uc *CompanyUseCase) Get(ctx context.Context, companyID string) (*dto.CompanyResponse, error) {
	c, err := uc.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// List empresas del usuario (por membresía).
func (uc *CompanyUseCase) List(ctx context.Context, userID string, page dto.PageRequest) (dto.ListResponse[dto.CompanyResponse], error) {
	page.DefaultPage()
	list, err := uc.store.Companies().ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return dto.ListResponse[dto.CompanyResponse]{}, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return dto.NewList(items, page), nil
}

// Update actualiza datos de la empresa.
func (uc *CompanyUseCase) Update(ctx context.Context, companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	c, err := uc.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.TaxID != nil {
		c.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	c.UpdatedAt = time.Now()
	if err := uc.store.Companies().Update(ctx, c); err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

// Deactivate baja lógica de la empresa: sus datos se conservan (facturas, libro de stock).
func (uc *CompanyUseCase) Deactivate(ctx context.Context, companyID string) error {
	c, err := uc.load(ctx, companyID)
	if err != nil {
		return err
	}
	if !c.Active {
		return nil
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	return uc.store.Companies().Update(ctx, c)
}

func (uc *CompanyUseCase) load(ctx context.Context, companyID string) (*entity.Company, error) {
	c, err := uc.store.Companies().GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	return c, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
