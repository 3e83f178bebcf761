package access

import (
	"context"
	"errors"
	"log/slog"
)

// Resolver computes a user's effective capability set from their active role
// memberships.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// ResolveCapabilities returns the union of the capability sets of every
// active role the user holds. A user with no active roles yields an empty
// set, not an error. A missing user yields ErrUserNotFound.
func (r *Resolver) ResolveCapabilities(ctx context.Context, userID int64) (CapabilitySet, error) {
	if _, err := r.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	memberships, err := r.store.ListActiveUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := make(CapabilitySet)
	for _, membership := range memberships {
		// Multiple round-trips follow; honor cancellation between them.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		names, err := r.store.ListRoleCapabilities(ctx, membership.RoleID)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			set.Add(name)
		}
	}
	return set, nil
}
