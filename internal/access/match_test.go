package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSegments(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		params  int
		ok      bool
	}{
		{"exact", "/documents", "/documents", 0, true},
		{"one param", "/documents/:id", "/documents/42", 1, true},
		{"nested param", "/documents/:id/edit", "/documents/42/edit", 1, true},
		{"length mismatch", "/documents/:id", "/documents/42/edit", 0, false},
		{"literal mismatch", "/documents/:id/edit", "/documents/42/view", 0, false},
		{"root", "/", "/", 0, true},
		{"trailing slash tolerated", "/documents/", "/documents", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, ok := matchSegments(splitPath(tt.pattern), splitPath(tt.path))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.params, params)
			}
		})
	}
}

func TestMatchResourceSpecificity(t *testing.T) {
	resources := []Resource{
		{ID: 1, Type: TypeRoute, Path: "/documents/:id"},
		{ID: 2, Type: TypeRoute, Path: "/documents/new"},
	}

	// The literal pattern wins over the parameterized one.
	res, ok := matchResource(resources, "/documents/new", "")
	require.True(t, ok)
	assert.Equal(t, int64(2), res.ID)

	res, ok = matchResource(resources, "/documents/42", "")
	require.True(t, ok)
	assert.Equal(t, int64(1), res.ID)
}

func TestMatchResourceTieBreaksOnID(t *testing.T) {
	resources := []Resource{
		{ID: 7, Type: TypeRoute, Path: "/files/:name"},
		{ID: 3, Type: TypeRoute, Path: "/files/:id"},
	}
	res, ok := matchResource(resources, "/files/readme", "")
	require.True(t, ok)
	assert.Equal(t, int64(3), res.ID)
}

func TestMatchResourceNoMatch(t *testing.T) {
	resources := []Resource{
		{ID: 1, Type: TypeRoute, Path: "/documents"},
	}
	_, ok := matchResource(resources, "/unknown", "")
	assert.False(t, ok)
}

func TestMatchResourceMethodFilter(t *testing.T) {
	resources := []Resource{
		{ID: 1, Type: TypeAPI, Path: "/api/documents", Metadata: map[string]string{"method": "GET"}},
		{ID: 2, Type: TypeAPI, Path: "/api/documents", Metadata: map[string]string{"method": "POST"}},
	}

	res, ok := matchResource(resources, "/api/documents", "post")
	require.True(t, ok)
	assert.Equal(t, int64(2), res.ID)

	_, ok = matchResource(resources, "/api/documents", "DELETE")
	assert.False(t, ok)
}
