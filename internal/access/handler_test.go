package access

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuvault/docuvault/internal/shared"
)

func handlerRequest(t *testing.T, engine *Engine, userID string, target string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(discardLogger(), engine, Middleware{Engine: engine, Logger: discardLogger()})
	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != "" {
		sess := &shared.Session{ID: "test"}
		sess.SetUser(userID)
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestNavigationEndpoint(t *testing.T) {
	rec := handlerRequest(t, newTestEngine(seedStore()), "1", "/navigation")
	require.Equal(t, http.StatusOK, rec.Code)

	var nodes []navigationNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "/home", nodes[0].Path)
	assert.Equal(t, "/documents", nodes[1].Path)
}

func TestNavigationEndpointRequiresSession(t *testing.T) {
	rec := handlerRequest(t, newTestEngine(seedStore()), "", "/navigation")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyCapabilitiesEndpoint(t *testing.T) {
	rec := handlerRequest(t, newTestEngine(seedStore()), "1", "/me/capabilities")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Capabilities []string `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, []string{"DOCUMENT_VIEW"}, payload.Capabilities)
}

func TestCapabilityCatalogGated(t *testing.T) {
	// Capability checks are exact membership; even ADMIN_ACCESS does not stand
	// in for ROLE_MANAGE here.
	rec := handlerRequest(t, newTestEngine(seedStore()), "1", "/capabilities/catalog")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = handlerRequest(t, newTestEngine(seedStore()), "2", "/capabilities/catalog")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	store := seedStore()
	store.setRoleCaps(20, "ADMIN_ACCESS", shared.CapRoleManage)
	rec = handlerRequest(t, newTestEngine(store), "2", "/capabilities/catalog")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGroupByCategory(t *testing.T) {
	groups := groupByCategory([]string{"DOCUMENT_VIEW", "DOCUMENT_UPLOAD", "PDF_DOWNLOAD", "ADMIN_ACCESS"})

	require.Len(t, groups, 3)
	assert.Equal(t, "Admin", groups[0].Category)
	assert.Equal(t, "Document", groups[1].Category)
	assert.Equal(t, []string{"DOCUMENT_UPLOAD", "DOCUMENT_VIEW"}, groups[1].Capabilities)
	assert.Equal(t, "Pdf", groups[2].Category)
}
