package access

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	_ "github.com/docuvault/docuvault/internal/testing/guard"
)

// mockStore is a map-backed Store for tests. Mutations go through the
// setter helpers so concurrent tests stay race free.
type mockStore struct {
	mu        sync.Mutex
	users     map[int64]User
	userRoles map[int64][]UserRole
	roleCaps  map[int64][]string
	resources []Resource
	capNames  []string

	failing       bool
	roleListCalls int
	roleListDelay time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[int64]User),
		userRoles: make(map[int64][]UserRole),
		roleCaps:  make(map[int64][]string),
	}
}

func (m *mockStore) GetUser(_ context.Context, userID int64) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return User{}, fmt.Errorf("%w: get user", ErrStoreUnavailable)
	}
	user, ok := m.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (m *mockStore) ListActiveUserRoles(_ context.Context, userID int64) ([]UserRole, error) {
	m.mu.Lock()
	if m.failing {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: list user roles", ErrStoreUnavailable)
	}
	m.roleListCalls++
	delay := m.roleListDelay
	memberships := m.userRoles[userID]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	var active []UserRole
	for _, membership := range memberships {
		if membership.IsActive {
			active = append(active, membership)
		}
	}
	return active, nil
}

func (m *mockStore) ListRoleCapabilities(_ context.Context, roleID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, fmt.Errorf("%w: list role capabilities", ErrStoreUnavailable)
	}
	return append([]string(nil), m.roleCaps[roleID]...), nil
}

func (m *mockStore) ListResources(_ context.Context, t ResourceType) ([]Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, fmt.Errorf("%w: list resources", ErrStoreUnavailable)
	}
	var out []Resource
	for _, res := range m.resources {
		if res.Type == t {
			out = append(out, res)
		}
	}
	return out, nil
}

func (m *mockStore) ListCapabilityNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, fmt.Errorf("%w: list capability names", ErrStoreUnavailable)
	}
	return append([]string(nil), m.capNames...), nil
}

func (m *mockStore) setFailing(failing bool) {
	m.mu.Lock()
	m.failing = failing
	m.mu.Unlock()
}

func (m *mockStore) setRoleCaps(roleID int64, names ...string) {
	m.mu.Lock()
	m.roleCaps[roleID] = names
	m.mu.Unlock()
}

func (m *mockStore) setResources(resources []Resource) {
	m.mu.Lock()
	m.resources = resources
	m.mu.Unlock()
}

func (m *mockStore) roleListCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roleListCalls
}

// fakeClock is a mutable clock for cache expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
