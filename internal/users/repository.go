package users

import (
	"context"
	"errors"

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

// ListUsers returns all users.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, name, is_active, created_at, updated_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, is_active, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, httpx.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// CreateUser inserts a new user with a hashed password.
func (r *Repository) CreateUser(ctx context.Context, email, name string, passwordHash []byte) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, now(), now())
		RETURNING id, email, name, is_active, created_at, updated_at`,
		email, name, passwordHash,
	).Scan(&user.ID, &user.Email, &user.Name, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// ListUserRoles returns every role assignment of a user.
func (r *Repository) ListUserRoles(ctx context.Context, userID int64) ([]RoleAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ur.role_id, r.name, ur.is_active, ur.assigned_at, ur.assigned_by
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ur.role_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var assignments []RoleAssignment
	for rows.Next() {
		var ra RoleAssignment
		if err := rows.Scan(&ra.RoleID, &ra.RoleName, &ra.IsActive, &ra.AssignedAt, &ra.AssignedBy); err != nil {
			return nil, err
		}
		assignments = append(assignments, ra)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// AssignRole adds or reactivates a role membership.
func (r *Repository) AssignRole(ctx context.Context, userID, roleID, assignedBy int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id, is_active, assigned_at, assigned_by)
		VALUES ($1, $2, TRUE, now(), $3)
		ON CONFLICT (user_id, role_id)
		DO UPDATE SET is_active = TRUE, assigned_at = now(), assigned_by = EXCLUDED.assigned_by`,
		userID, roleID, assignedBy)
	return err
}

// RevokeRole deactivates a role membership.
func (r *Repository) RevokeRole(ctx context.Context, userID, roleID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_roles SET is_active = FALSE WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
