package roles

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// RepositoryPort defines data access methods for roles and capabilities.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name string, level int) (Role, error)
	SetRoleActive(ctx context.Context, id int64, active bool) error
	ListCapabilities(ctx context.Context) ([]Capability, error)
	EnsureCapability(ctx context.Context, name, category, description string) (Capability, error)
	DeleteCapability(ctx context.Context, id int64) error
	ListRoleCapabilityIDs(ctx context.Context, roleID int64) ([]int64, error)
	AttachCapability(ctx context.Context, roleID, capabilityID int64) error
	DetachCapability(ctx context.Context, roleID, capabilityID int64) error
	ListRoleUserIDs(ctx context.Context, roleID int64) ([]int64, error)
}

// Invalidator receives cache invalidation hooks after mutations. The access
// engine implements it.
type Invalidator interface {
	InvalidateAll()
}

// WarmupEnqueuer schedules a background capability warmup for the given
// users. Optional.
type WarmupEnqueuer interface {
	EnqueueCapabilityWarmup(ctx context.Context, userIDs []int64) error
}

// Service handles role and capability administration.
type Service struct {
	repo        RepositoryPort
	invalidator Invalidator
	warmup      WarmupEnqueuer
	logger      *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, invalidator Invalidator, warmup WarmupEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, invalidator: invalidator, warmup: warmup, logger: logger}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name string, level int) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("roles: role name required")
	}
	return s.repo.CreateRole(ctx, name, level)
}

// SetRoleActive toggles the active flag. Disabling a role removes its
// capabilities from every holder, so the capability cache goes entirely.
func (s *Service) SetRoleActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.SetRoleActive(ctx, id, active); err != nil {
		return err
	}
	s.invalidator.InvalidateAll()
	return nil
}

// ListCapabilities returns all capabilities.
func (s *Service) ListCapabilities(ctx context.Context) ([]Capability, error) {
	return s.repo.ListCapabilities(ctx)
}

// EnsureCapability upserts a capability by name.
func (s *Service) EnsureCapability(ctx context.Context, name, category, description string) (Capability, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Capability{}, errors.New("roles: capability name required")
	}
	return s.repo.EnsureCapability(ctx, name, strings.TrimSpace(category), strings.TrimSpace(description))
}

// DeleteCapability removes an unreferenced capability.
func (s *Service) DeleteCapability(ctx context.Context, id int64) error {
	return s.repo.DeleteCapability(ctx, id)
}

// SetRoleCapabilities replaces the capability assignments of a role by
// diffing the existing set against the requested one. Every holder of the
// role is affected, so the whole capability cache is invalidated rather than
// fanning out per user.
func (s *Service) SetRoleCapabilities(ctx context.Context, roleID int64, capabilityIDs []int64) error {
	existingIDs, err := s.repo.ListRoleCapabilityIDs(ctx, roleID)
	if err != nil {
		return err
	}
	existing := make(map[int64]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}
	keep := make(map[int64]struct{}, len(capabilityIDs))
	for _, id := range capabilityIDs {
		keep[id] = struct{}{}
		if _, ok := existing[id]; !ok {
			if err := s.repo.AttachCapability(ctx, roleID, id); err != nil {
				return err
			}
		}
	}
	for id := range existing {
		if _, ok := keep[id]; !ok {
			if err := s.repo.DetachCapability(ctx, roleID, id); err != nil {
				return err
			}
		}
	}

	s.invalidator.InvalidateAll()
	s.enqueueWarmup(ctx, roleID)
	return nil
}

// enqueueWarmup schedules capability re-resolution for the role's holders so
// the first request after a broad invalidation does not pay the full miss.
func (s *Service) enqueueWarmup(ctx context.Context, roleID int64) {
	if s.warmup == nil {
		return
	}
	userIDs, err := s.repo.ListRoleUserIDs(ctx, roleID)
	if err != nil {
		s.logger.Warn("list role users for warmup", slog.Any("error", err))
		return
	}
	if len(userIDs) == 0 {
		return
	}
	if err := s.warmup.EnqueueCapabilityWarmup(ctx, userIDs); err != nil {
		s.logger.Warn("enqueue capability warmup", slog.Any("error", err))
	}
}
