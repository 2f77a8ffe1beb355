package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/access"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.MembershipRepository = (*MembershipRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, name, role, status, created_at, updated_at`

// Create persiste un nuevo usuario. Email duplicado => domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return writeError("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// List lista usuarios de la plataforma.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := []*entity.User{}
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// MembershipRepo implementación del puerto MembershipRepository (tabla company_memberships).
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador de membresías.
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

const membershipColumns = `id, user_id, company_id, access_level, status, created_at, updated_at`

// Create persiste una membresía; (user_id, company_id) es único.
func (r *MembershipRepo) Create(ctx context.Context, m *entity.Membership) error {
	query := `INSERT INTO company_memberships (` + membershipColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.UserID, m.CompanyID, int(m.AccessLevel), string(m.Status), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return writeError("insert membership", err)
	}
	return nil
}

// Get membresía de un usuario en una empresa; (nil, nil) si no existe.
func (r *MembershipRepo) Get(ctx context.Context, userID, companyID string) (*entity.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM company_memberships WHERE user_id = $1 AND company_id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, userID, companyID).Scan)
}

// GetByID membresía por ID.
func (r *MembershipRepo) GetByID(ctx context.Context, id string) (*entity.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM company_memberships WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id).Scan)
}

func (r *MembershipRepo) scanOne(scan func(dest ...any) error) (*entity.Membership, error) {
	var m entity.Membership
	var level int
	if err := scan(&m.ID, &m.UserID, &m.CompanyID, &level, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	m.AccessLevel = access.Level(level)
	return &m, nil
}

// Update cambia nivel y estado.
func (r *MembershipRepo) Update(ctx context.Context, m *entity.Membership) error {
	query := `UPDATE company_memberships SET access_level = $2, status = $3, updated_at = $4 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, m.ID, int(m.AccessLevel), string(m.Status), m.UpdatedAt)
	if err != nil {
		return writeError("update membership", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany miembros de la empresa con email y nombre del usuario.
func (r *MembershipRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.MemberView, error) {
	query := `
		SELECT m.id, m.user_id, m.company_id, m.access_level, m.status, m.created_at, m.updated_at,
			u.email, u.name
		FROM company_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.company_id = $1
		ORDER BY m.created_at DESC, m.id DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()
	list := []*entity.MemberView{}
	for rows.Next() {
		var mv entity.MemberView
		var level int
		if err := rows.Scan(&mv.ID, &mv.UserID, &mv.CompanyID, &level, &mv.Status, &mv.CreatedAt, &mv.UpdatedAt,
			&mv.UserEmail, &mv.UserName); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		mv.AccessLevel = access.Level(level)
		list = append(list, &mv)
	}
	return list, rows.Err()
}
