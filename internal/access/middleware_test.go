package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docuvault/docuvault/internal/shared"
)

func middlewareRequest(t *testing.T, mw func(http.Handler) http.Handler, userID string, method, target string) int {
	t.Helper()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		sess := &shared.Session{ID: "test"}
		sess.SetUser(userID)
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireAny(t *testing.T) {
	mw := Middleware{Engine: newTestEngine(seedStore()), Logger: discardLogger()}

	assert.Equal(t, http.StatusOK,
		middlewareRequest(t, mw.RequireAny("DOCUMENT_VIEW"), "1", http.MethodGet, "/x"))
	assert.Equal(t, http.StatusForbidden,
		middlewareRequest(t, mw.RequireAny("USER_MANAGE"), "1", http.MethodGet, "/x"))
	assert.Equal(t, http.StatusOK,
		middlewareRequest(t, mw.RequireAny("USER_MANAGE", "DOCUMENT_VIEW"), "1", http.MethodGet, "/x"))
}

func TestRequireAll(t *testing.T) {
	mw := Middleware{Engine: newTestEngine(seedStore()), Logger: discardLogger()}

	assert.Equal(t, http.StatusOK,
		middlewareRequest(t, mw.RequireAll("DOCUMENT_VIEW"), "1", http.MethodGet, "/x"))
	assert.Equal(t, http.StatusForbidden,
		middlewareRequest(t, mw.RequireAll("DOCUMENT_VIEW", "USER_MANAGE"), "1", http.MethodGet, "/x"))
}

func TestMiddlewareWithoutSessionDenies(t *testing.T) {
	mw := Middleware{Engine: newTestEngine(seedStore()), Logger: discardLogger()}

	assert.Equal(t, http.StatusForbidden,
		middlewareRequest(t, mw.RequireAny("DOCUMENT_VIEW"), "", http.MethodGet, "/x"))
	assert.Equal(t, http.StatusForbidden,
		middlewareRequest(t, mw.RequireRoute(), "", http.MethodGet, "/profile"))
}

func TestMiddlewareMalformedUserIDDenies(t *testing.T) {
	mw := Middleware{Engine: newTestEngine(seedStore()), Logger: discardLogger()}

	assert.Equal(t, http.StatusForbidden,
		middlewareRequest(t, mw.RequireAny("DOCUMENT_VIEW"), "not-a-number", http.MethodGet, "/x"))
}

func TestRequireRoute(t *testing.T) {
	mw := Middleware{Engine: newTestEngine(seedStore()), Logger: discardLogger()}

	assert.Equal(t, http.StatusOK,
		middlewareRequest(t, mw.RequireRoute(), "1", http.MethodGet, "/documents"))
	assert.Equal(t, http.StatusForbidden,
		middlewareRequest(t, mw.RequireRoute(), "1", http.MethodGet, "/admin/users"))
}

func TestRequireAPI(t *testing.T) {
	mw := Middleware{Engine: newTestEngine(seedStore()), Logger: discardLogger()}

	assert.Equal(t, http.StatusOK,
		middlewareRequest(t, mw.RequireAPI(), "1", http.MethodGet, "/api/documents"))
	assert.Equal(t, http.StatusForbidden,
		middlewareRequest(t, mw.RequireAPI(), "1", http.MethodPost, "/api/documents"))
}
