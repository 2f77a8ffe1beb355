package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Negocio-api/internal/application/authz"
	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/access"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

// MembershipUseCase gestión de miembros de una empresa.
type MembershipUseCase struct {
	store repository.Store
}

// NewMembershipUseCase construye el caso de uso.
func NewMembershipUseCase(store repository.Store) *MembershipUseCase {
	return &MembershipUseCase{store: store}
}

// Add agrega un usuario existente (por email) a la empresa.
// Nadie otorga un nivel superior al propio salvo el admin global.
func (uc *MembershipUseCase) Add(ctx context.Context, actor authz.Principal, companyID string, in dto.AddMemberRequest) (*dto.MemberResponse, error) {
	level, ok := access.ParseLevel(in.AccessLevel)
	if !ok {
		return nil, domain.FieldErrors{"access_level": "nivel de acceso desconocido"}
	}
	status := access.MembershipActive
	if in.Status != "" {
		status = access.MembershipStatus(in.Status)
	}
	if err := canGrant(actor, level); err != nil {
		return nil, err
	}
	user, err := uc.store.Users().GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no existe un usuario con ese email", domain.ErrNotFound)
	}
	now := time.Now()
	m := &entity.Membership{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		CompanyID:   companyID,
		AccessLevel: level,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.store.Memberships().Create(ctx, m); err != nil {
		return nil, err
	}
	return toMemberResponse(&entity.MemberView{Membership: *m, UserEmail: user.Email, UserName: user.Name}), nil
}

// List miembros de la empresa.
func (uc *MembershipUseCase) List(ctx context.Context, companyID string) ([]dto.MemberResponse, error) {
	list, err := uc.store.Memberships().ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MemberResponse, 0, len(list))
	for _, mv := range list {
		out = append(out, *toMemberResponse(mv))
	}
	return out, nil
}

// Update cambia nivel y/o estado de una membresía de la empresa.
func (uc *MembershipUseCase) Update(ctx context.Context, actor authz.Principal, companyID, memberID string, in dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	m, err := uc.store.Memberships().GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.CompanyID != companyID {
		return nil, fmt.Errorf("%w: miembro", domain.ErrNotFound)
	}
	// Tampoco se modifica a quien tiene más nivel que uno.
	if err := canGrant(actor, m.AccessLevel); err != nil {
		return nil, err
	}
	if in.AccessLevel != nil {
		level, ok := access.ParseLevel(*in.AccessLevel)
		if !ok {
			return nil, domain.FieldErrors{"access_level": "nivel de acceso desconocido"}
		}
		if err := canGrant(actor, level); err != nil {
			return nil, err
		}
		m.AccessLevel = level
	}
	if in.Status != nil {
		m.Status = access.MembershipStatus(*in.Status)
	}
	m.UpdatedAt = time.Now()
	if err := uc.store.Memberships().Update(ctx, m); err != nil {
		return nil, err
	}
	mv := &entity.MemberView{Membership: *m}
	if u, err := uc.store.Users().GetByID(ctx, m.UserID); err == nil && u != nil {
		mv.UserEmail, mv.UserName = u.Email, u.Name
	}
	return toMemberResponse(mv), nil
}

func canGrant(actor authz.Principal, level access.Level) error {
	if actor.Role.IsGlobalAdmin() || access.Satisfies(actor.Level, level) {
		return nil
	}
	return fmt.Errorf("%w: no puede otorgar un nivel superior al propio", domain.ErrForbidden)
}

func toMemberResponse(mv *entity.MemberView) *dto.MemberResponse {
	return &dto.MemberResponse{
		ID:          mv.ID,
		UserID:      mv.UserID,
		CompanyID:   mv.CompanyID,
		Email:       mv.UserEmail,
		Name:        mv.UserName,
		AccessLevel: mv.AccessLevel.String(),
		Status:      string(mv.Status),
		CreatedAt:   mv.CreatedAt,
	}
}
