package usecase

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

// BranchUseCase casos de uso CRUD para sucursales.
type BranchUseCase struct {
	store repository.Store
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(store repository.Store) *BranchUseCase {
	return &BranchUseCase{store: store}
}

// Create crea una nueva sucursal. El código es único dentro de la empresa.
func (uc *BranchUseCase) Create(ctx context.Context, companyID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if err := uc.checkManager(ctx, companyID, in.ManagerID); err != nil {
		return nil, err
	}
	now := time.Now()
	b := &entity.Branch{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:      strings.TrimSpace(in.Name),
		Address:   in.Address,
		Phone:     in.Phone,
		ManagerID: in.ManagerID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.store.Branches().Create(ctx, b); err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// Get obtiene una sucursal de la empresa.
func (uc *BranchUseCase) Get(ctx context.Context, companyID, id string) (*dto.BranchResponse, error) {
	b, err := LoadBranch(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// Update actualiza una sucursal.
func (uc *BranchUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	b, err := LoadBranch(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		b.Code = strings.ToUpper(strings.TrimSpace(*in.Code))
	}
	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	if in.Phone != nil {
		b.Phone = *in.Phone
	}
	if in.ManagerID != nil {
		if err := uc.checkManager(ctx, companyID, in.ManagerID); err != nil {
			return nil, err
		}
		b.ManagerID = in.ManagerID
	}
	if in.Active != nil {
		b.Active = *in.Active
	}
	b.UpdatedAt = time.Now()
	if err := uc.store.Branches().Update(ctx, b); err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// List lista sucursales por empresa con paginación.
func (uc *BranchUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (dto.ListResponse[dto.BranchResponse], error) {
	page.DefaultPage()
	list, err := uc.store.Branches().ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return dto.ListResponse[dto.BranchResponse]{}, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return dto.NewList(items, page), nil
}

// Delete elimina una sucursal sin movimientos ni facturas.
func (uc *BranchUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := LoadBranch(ctx, uc.store, companyID, id); err != nil {
		return err
	}
	return uc.store.Branches().Delete(ctx, id)
}

// checkManager el encargado debe ser miembro de la empresa.
func (uc *BranchUseCase) checkManager(ctx context.Context, companyID string, managerID *string) error {
	if managerID == nil || *managerID == "" {
		return nil
	}
	m, err := uc.store.Memberships().Get(ctx, *managerID, companyID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: el encargado no es miembro de la empresa", domain.ErrReferenceMismatch)
	}
	return nil
}

// LoadBranch obtiene la sucursal y verifica que pertenezca a la empresa.
func LoadBranch(ctx context.Context, store repository.Store, companyID, id string) (*entity.Branch, error) {
	b, err := store.Branches().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil || b.CompanyID != companyID {
		return nil, fmt.Errorf("%w: sucursal", domain.ErrNotFound)
	}
	return b, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Code:      b.Code,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		ManagerID: b.ManagerID,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
