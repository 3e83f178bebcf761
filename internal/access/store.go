package access

import "context"

// Store is the read-only view of the persisted access-control records. The
// engine never mutates these entities; administrative flows own all writes.
type Store interface {
	// GetUser returns the user record or ErrNotFound.
	GetUser(ctx context.Context, userID int64) (User, error)
	// ListActiveUserRoles returns the active role memberships for a user.
	ListActiveUserRoles(ctx context.Context, userID int64) ([]UserRole, error)
	// ListRoleCapabilities returns the capability names assigned to a role.
	ListRoleCapabilities(ctx context.Context, roleID int64) ([]string, error)
	// ListResources returns every resource row of the given type.
	ListResources(ctx context.Context, t ResourceType) ([]Resource, error)
	// ListCapabilityNames returns every known capability name.
	ListCapabilityNames(ctx context.Context) ([]string, error)
}
