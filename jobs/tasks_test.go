package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuvault/docuvault/internal/access"
	_ "github.com/docuvault/docuvault/internal/testing/guard"
)

// stubStore is a minimal in-memory access.Store for handler tests.
type stubStore struct {
	users         map[int64]access.User
	resolvedUsers []int64
	resourceLists int
}

func newStubStore() *stubStore {
	return &stubStore{users: map[int64]access.User{
		1: {ID: 1, IsActive: true},
		2: {ID: 2, IsActive: true},
	}}
}

func (s *stubStore) GetUser(_ context.Context, userID int64) (access.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return access.User{}, access.ErrNotFound
	}
	return user, nil
}

func (s *stubStore) ListActiveUserRoles(_ context.Context, userID int64) ([]access.UserRole, error) {
	s.resolvedUsers = append(s.resolvedUsers, userID)
	return nil, nil
}

func (s *stubStore) ListRoleCapabilities(context.Context, int64) ([]string, error) {
	return nil, nil
}

func (s *stubStore) ListResources(context.Context, access.ResourceType) ([]access.Resource, error) {
	s.resourceLists++
	return []access.Resource{}, nil
}

func (s *stubStore) ListCapabilityNames(context.Context) ([]string, error) {
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleCapabilityWarmup(t *testing.T) {
	store := newStubStore()
	engine := access.NewEngine(store, testLogger(), access.Options{})

	task, err := NewCapabilityWarmupTask(CapabilityWarmupPayload{UserIDs: []int64{1, 2, 404}})
	require.NoError(t, err)

	handler := HandleCapabilityWarmup(engine, testLogger())
	require.NoError(t, handler(context.Background(), task))

	// The unknown user is skipped with a warning, the rest are warmed.
	assert.Equal(t, []int64{1, 2}, store.resolvedUsers)
}

func TestHandleCapabilityWarmupMalformedPayload(t *testing.T) {
	engine := access.NewEngine(newStubStore(), testLogger(), access.Options{})

	handler := HandleCapabilityWarmup(engine, testLogger())
	err := handler(context.Background(), asynq.NewTask(TaskCapabilityWarmup, []byte("{broken")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleTreeScanRebuildsEveryForest(t *testing.T) {
	store := newStubStore()
	engine := access.NewEngine(store, testLogger(), access.Options{})

	handler := HandleTreeScan(engine, testLogger())
	require.NoError(t, handler(context.Background(), NewTreeScanTask()))

	assert.Equal(t, len(access.ResourceTypes()), store.resourceLists)
}
