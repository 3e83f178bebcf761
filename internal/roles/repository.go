package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docuvault/docuvault/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRoles returns all roles.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, level, is_active, created_at, updated_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Level, &role.IsActive, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetRole fetches a role by ID.
func (r *Repository) GetRole(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, level, is_active, created_at, updated_at FROM roles WHERE id = $1`, id,
	).Scan(&role.ID, &role.Name, &role.Level, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, httpx.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, name string, level int) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, level, is_active, created_at, updated_at)
		VALUES ($1, $2, TRUE, now(), now())
		RETURNING id, name, level, is_active, created_at, updated_at`, name, level,
	).Scan(&role.ID, &role.Name, &role.Level, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.ConstraintName == "uq_roles_name" {
			return Role{}, httpx.ErrDuplicate
		}
		return Role{}, err
	}
	return role, nil
}

// SetRoleActive toggles the active flag of a role.
func (r *Repository) SetRoleActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE roles SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ListCapabilities returns all capabilities ordered by category and name.
func (r *Repository) ListCapabilities(ctx context.Context) ([]Capability, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category, description FROM capabilities ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var caps []Capability
	for rows.Next() {
		var c Capability
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.Description); err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return caps, nil
}

// EnsureCapability upserts a capability by name.
func (r *Repository) EnsureCapability(ctx context.Context, name, category, description string) (Capability, error) {
	var c Capability
	err := r.pool.QueryRow(ctx, `
		INSERT INTO capabilities (name, category, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET category = EXCLUDED.category, description = EXCLUDED.description
		RETURNING id, name, category, description`, name, category, description,
	).Scan(&c.ID, &c.Name, &c.Category, &c.Description)
	if err != nil {
		return Capability{}, err
	}
	return c, nil
}

// DeleteCapability removes a capability; the foreign keys from resources and
// role assignments keep referenced capabilities undeletable.
func (r *Repository) DeleteCapability(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM capabilities WHERE id = $1`, id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23503" {
			return httpx.ErrValidation
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// ListRoleCapabilityIDs returns the capability ids currently assigned to a role.
func (r *Repository) ListRoleCapabilityIDs(ctx context.Context, roleID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT capability_id FROM role_capabilities WHERE role_id = $1 ORDER BY capability_id`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// AttachCapability assigns a capability to a role.
func (r *Repository) AttachCapability(ctx context.Context, roleID, capabilityID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO role_capabilities (role_id, capability_id, assigned_at)
		VALUES ($1, $2, now())
		ON CONFLICT DO NOTHING`, roleID, capabilityID)
	return err
}

// DetachCapability removes a capability from a role.
func (r *Repository) DetachCapability(ctx context.Context, roleID, capabilityID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM role_capabilities WHERE role_id = $1 AND capability_id = $2`, roleID, capabilityID)
	return err
}

// ListRoleUserIDs returns ids of users holding an active membership of the role.
func (r *Repository) ListRoleUserIDs(ctx context.Context, roleID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM user_roles WHERE role_id = $1 AND is_active ORDER BY user_id`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
