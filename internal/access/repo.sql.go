package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides the PostgreSQL backed Store implementation.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetUser returns the user record or ErrNotFound.
func (r *Repository) GetUser(ctx context.Context, userID int64) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, is_active FROM users WHERE id = $1`, userID,
	).Scan(&user.ID, &user.Email, &user.Name, &user.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, storeErr("get user", err)
	}
	return user, nil
}

// ListActiveUserRoles returns active role memberships for a user.
func (r *Repository) ListActiveUserRoles(ctx context.Context, userID int64) ([]UserRole, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ur.user_id, ur.role_id, ur.is_active, ur.assigned_at, ur.assigned_by
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1 AND ur.is_active AND r.is_active
		ORDER BY ur.role_id`, userID)
	if err != nil {
		return nil, storeErr("list user roles", err)
	}
	defer rows.Close()
	var memberships []UserRole
	for rows.Next() {
		var ur UserRole
		if err := rows.Scan(&ur.UserID, &ur.RoleID, &ur.IsActive, &ur.AssignedAt, &ur.AssignedBy); err != nil {
			return nil, storeErr("scan user role", err)
		}
		memberships = append(memberships, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list user roles", err)
	}
	return memberships, nil
}

// ListRoleCapabilities returns capability names assigned to a role.
func (r *Repository) ListRoleCapabilities(ctx context.Context, roleID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.name
		FROM role_capabilities rc
		JOIN capabilities c ON c.id = rc.capability_id
		WHERE rc.role_id = $1
		ORDER BY c.name`, roleID)
	if err != nil {
		return nil, storeErr("list role capabilities", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeErr("scan capability", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list role capabilities", err)
	}
	return names, nil
}

// ListResources returns every resource row of the given type.
func (r *Repository) ListResources(ctx context.Context, t ResourceType) ([]Resource, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, path, name, parent_id, required_capability, sort_order, metadata
		FROM resources
		WHERE type = $1
		ORDER BY sort_order, id`, string(t))
	if err != nil {
		return nil, storeErr("list resources", err)
	}
	defer rows.Close()
	var resources []Resource
	for rows.Next() {
		var (
			res  Resource
			kind string
			meta []byte
		)
		if err := rows.Scan(&res.ID, &kind, &res.Path, &res.Name, &res.ParentID, &res.RequiredCapability, &res.SortOrder, &meta); err != nil {
			return nil, storeErr("scan resource", err)
		}
		res.Type = ResourceType(kind)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &res.Metadata); err != nil {
				return nil, storeErr("decode resource metadata", err)
			}
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list resources", err)
	}
	return resources, nil
}

// ListCapabilityNames returns every known capability name.
func (r *Repository) ListCapabilityNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM capabilities ORDER BY name`)
	if err != nil {
		return nil, storeErr("list capabilities", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeErr("scan capability name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list capabilities", err)
	}
	return names, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
