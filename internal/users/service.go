package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, email, name string, passwordHash []byte) (User, error)
	ListUserRoles(ctx context.Context, userID int64) ([]RoleAssignment, error)
	AssignRole(ctx context.Context, userID, roleID, assignedBy int64) error
	RevokeRole(ctx context.Context, userID, roleID int64) error
}

// Invalidator drops the cached capability set of a single user after a
// membership mutation. The access engine implements it.
type Invalidator interface {
	InvalidateUser(userID int64)
}

// Service handles user administration.
type Service struct {
	repo        RepositoryPort
	invalidator Invalidator
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser inserts a new user with a bcrypt hashed password.
func (s *Service) CreateUser(ctx context.Context, email, name, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return User{}, errors.New("users: email required")
	}
	if len(password) < 8 {
		return User{}, errors.New("users: password too short")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.CreateUser(ctx, email, strings.TrimSpace(name), hash)
}

// ListUserRoles returns every role assignment of a user.
func (s *Service) ListUserRoles(ctx context.Context, userID int64) ([]RoleAssignment, error) {
	return s.repo.ListUserRoles(ctx, userID)
}

// AssignRole grants a role to a user and drops their cached capability set.
func (s *Service) AssignRole(ctx context.Context, userID, roleID, assignedBy int64) error {
	if err := s.repo.AssignRole(ctx, userID, roleID, assignedBy); err != nil {
		return err
	}
	s.invalidator.InvalidateUser(userID)
	return nil
}

// RevokeRole deactivates a role membership and drops the user's cached
// capability set.
func (s *Service) RevokeRole(ctx context.Context, userID, roleID int64) error {
	if err := s.repo.RevokeRole(ctx, userID, roleID); err != nil {
		return err
	}
	s.invalidator.InvalidateUser(userID)
	return nil
}
