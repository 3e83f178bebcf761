package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBuildTreeOrdersSiblings(t *testing.T) {
	resources := []Resource{
		{ID: 3, Type: TypeNavigation, Path: "/c", SortOrder: 2},
		{ID: 1, Type: TypeNavigation, Path: "/a", SortOrder: 1},
		{ID: 2, Type: TypeNavigation, Path: "/b", SortOrder: 1},
		{ID: 4, Type: TypeNavigation, Path: "/a/x", ParentID: ptr(int64(1)), SortOrder: 5},
		{ID: 5, Type: TypeNavigation, Path: "/a/y", ParentID: ptr(int64(1)), SortOrder: 1},
	}

	forest, err := BuildTree(resources, TypeNavigation)
	require.NoError(t, err)
	require.Len(t, forest, 3)

	// sortOrder ascending, id breaks the tie between 1 and 2.
	assert.Equal(t, int64(1), forest[0].Resource.ID)
	assert.Equal(t, int64(2), forest[1].Resource.ID)
	assert.Equal(t, int64(3), forest[2].Resource.ID)

	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, int64(5), forest[0].Children[0].Resource.ID)
	assert.Equal(t, int64(4), forest[0].Children[1].Resource.ID)
}

func TestBuildTreeIgnoresOtherTypes(t *testing.T) {
	resources := []Resource{
		{ID: 1, Type: TypeNavigation, Path: "/nav"},
		{ID: 2, Type: TypeRoute, Path: "/route"},
	}
	forest, err := BuildTree(resources, TypeRoute)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, int64(2), forest[0].Resource.ID)
}

func TestBuildTreeRejectsCycle(t *testing.T) {
	resources := []Resource{
		{ID: 1, Type: TypeNavigation, Path: "/a", ParentID: ptr(int64(2))},
		{ID: 2, Type: TypeNavigation, Path: "/b", ParentID: ptr(int64(1))},
	}
	_, err := BuildTree(resources, TypeNavigation)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildTreeRejectsDanglingParent(t *testing.T) {
	resources := []Resource{
		{ID: 1, Type: TypeNavigation, Path: "/a", ParentID: ptr(int64(99))},
	}
	_, err := BuildTree(resources, TypeNavigation)
	assert.ErrorIs(t, err, ErrDanglingParent)
}

func TestBuildTreeRejectsCrossTypeParent(t *testing.T) {
	// A parent of a different type is not visible within the forest and must
	// read as dangling.
	resources := []Resource{
		{ID: 1, Type: TypeRoute, Path: "/r"},
		{ID: 2, Type: TypeNavigation, Path: "/n", ParentID: ptr(int64(1))},
	}
	_, err := BuildTree(resources, TypeNavigation)
	assert.ErrorIs(t, err, ErrDanglingParent)
}

func TestBuildTreeEmptyInput(t *testing.T) {
	forest, err := BuildTree(nil, TypeAPI)
	require.NoError(t, err)
	assert.Empty(t, forest)
}
