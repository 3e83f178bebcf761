package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/docuvault/docuvault/internal/testing/guard"
)

type mockRepo struct {
	users       map[int64]User
	assignments map[int64][]RoleAssignment
	lastHash    []byte
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:       make(map[int64]User),
		assignments: make(map[int64][]RoleAssignment),
	}
}

func (m *mockRepo) ListUsers(context.Context) ([]User, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockRepo) GetUser(_ context.Context, id int64) (User, error) {
	return m.users[id], nil
}

func (m *mockRepo) CreateUser(_ context.Context, email, name string, passwordHash []byte) (User, error) {
	user := User{ID: int64(len(m.users) + 1), Email: email, Name: name, IsActive: true}
	m.users[user.ID] = user
	m.lastHash = passwordHash
	return user, nil
}

func (m *mockRepo) ListUserRoles(_ context.Context, userID int64) ([]RoleAssignment, error) {
	return m.assignments[userID], nil
}

func (m *mockRepo) AssignRole(_ context.Context, userID, roleID, assignedBy int64) error {
	m.assignments[userID] = append(m.assignments[userID], RoleAssignment{RoleID: roleID, IsActive: true, AssignedBy: assignedBy})
	return nil
}

func (m *mockRepo) RevokeRole(_ context.Context, userID, roleID int64) error {
	for i, a := range m.assignments[userID] {
		if a.RoleID == roleID {
			m.assignments[userID][i].IsActive = false
		}
	}
	return nil
}

type mockInvalidator struct {
	invalidated []int64
}

func (m *mockInvalidator) InvalidateUser(userID int64) {
	m.invalidated = append(m.invalidated, userID)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockInvalidator{})

	user, err := svc.CreateUser(context.Background(), " Dina@Example.COM ", "Dina", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "dina@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword(repo.lastHash, []byte("correct horse battery")))
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newMockRepo(), &mockInvalidator{})
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "", "Nobody", "longenough")
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, "a@b.com", "Short", "2short")
	assert.Error(t, err)
}

func TestAssignRoleInvalidatesUser(t *testing.T) {
	repo := newMockRepo()
	inv := &mockInvalidator{}
	svc := NewService(repo, inv)

	err := svc.AssignRole(context.Background(), 7, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, inv.invalidated)
	require.Len(t, repo.assignments[7], 1)
	assert.True(t, repo.assignments[7][0].IsActive)
}

func TestRevokeRoleInvalidatesUser(t *testing.T) {
	repo := newMockRepo()
	inv := &mockInvalidator{}
	svc := NewService(repo, inv)
	ctx := context.Background()

	require.NoError(t, svc.AssignRole(ctx, 7, 2, 1))
	require.NoError(t, svc.RevokeRole(ctx, 7, 2))

	assert.Equal(t, []int64{7, 7}, inv.invalidated)
	assert.False(t, repo.assignments[7][0].IsActive)
}
