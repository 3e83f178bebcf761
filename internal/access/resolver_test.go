package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCapabilitiesUnionsRoles(t *testing.T) {
	store := newMockStore()
	store.users[1] = User{ID: 1, Email: "eka@example.com", IsActive: true}
	store.userRoles[1] = []UserRole{
		{UserID: 1, RoleID: 10, IsActive: true},
		{UserID: 1, RoleID: 20, IsActive: true},
	}
	store.roleCaps[10] = []string{"DOCUMENT_VIEW", "DOCUMENT_UPLOAD"}
	store.roleCaps[20] = []string{"DOCUMENT_VIEW", "PDF_DOWNLOAD"}

	resolver := NewResolver(store, discardLogger())
	set, err := resolver.ResolveCapabilities(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"DOCUMENT_UPLOAD", "DOCUMENT_VIEW", "PDF_DOWNLOAD"}, set.Names())
}

func TestResolveCapabilitiesSkipsInactiveMemberships(t *testing.T) {
	store := newMockStore()
	store.users[1] = User{ID: 1, IsActive: true}
	store.userRoles[1] = []UserRole{
		{UserID: 1, RoleID: 10, IsActive: true},
		{UserID: 1, RoleID: 20, IsActive: false},
	}
	store.roleCaps[10] = []string{"DOCUMENT_VIEW"}
	store.roleCaps[20] = []string{"USER_MANAGE"}

	resolver := NewResolver(store, discardLogger())
	set, err := resolver.ResolveCapabilities(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, set.Has("DOCUMENT_VIEW"))
	assert.False(t, set.Has("USER_MANAGE"))
}

func TestResolveCapabilitiesNoRolesIsEmptySet(t *testing.T) {
	store := newMockStore()
	store.users[1] = User{ID: 1, IsActive: true}

	resolver := NewResolver(store, discardLogger())
	set, err := resolver.ResolveCapabilities(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, set.Names())
	assert.False(t, set.HasAny("DOCUMENT_VIEW", "ADMIN_ACCESS"))
}

func TestResolveCapabilitiesUnknownUser(t *testing.T) {
	resolver := NewResolver(newMockStore(), discardLogger())
	_, err := resolver.ResolveCapabilities(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolveCapabilitiesStoreFailure(t *testing.T) {
	store := newMockStore()
	store.users[1] = User{ID: 1, IsActive: true}
	store.setFailing(true)

	resolver := NewResolver(store, discardLogger())
	_, err := resolver.ResolveCapabilities(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestResolveCapabilitiesCancelledContext(t *testing.T) {
	store := newMockStore()
	store.users[1] = User{ID: 1, IsActive: true}
	store.userRoles[1] = []UserRole{{UserID: 1, RoleID: 10, IsActive: true}}
	store.roleCaps[10] = []string{"DOCUMENT_VIEW"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := NewResolver(store, discardLogger())
	_, err := resolver.ResolveCapabilities(ctx, 1)
	assert.Error(t, err)
}
