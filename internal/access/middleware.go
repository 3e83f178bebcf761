package access

import (
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/docuvault/docuvault/internal/shared"
)

// Middleware wires engine-backed authorization for HTTP handlers. Identity
// comes from the session; authentication itself is someone else's problem.
type Middleware struct {
	Engine *Engine
	Logger *slog.Logger
}

// RequireAny ensures the current user holds at least one of the capabilities.
func (m Middleware) RequireAny(caps ...string) func(http.Handler) http.Handler {
	required := dedupe(caps)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := m.currentUserID(r)
			if !ok {
				forbidden(w)
				return
			}
			if m.Engine.HasAnyCapability(r.Context(), userID, required...) {
				next.ServeHTTP(w, r)
				return
			}
			forbidden(w)
		})
	}
}

// RequireAll ensures the current user holds every listed capability.
func (m Middleware) RequireAll(caps ...string) func(http.Handler) http.Handler {
	required := dedupe(caps)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := m.currentUserID(r)
			if !ok {
				forbidden(w)
				return
			}
			if m.Engine.HasAllCapabilities(r.Context(), userID, required...) {
				next.ServeHTTP(w, r)
				return
			}
			forbidden(w)
		})
	}
}

// RequireRoute authorizes the request path against the route resource tree.
func (m Middleware) RequireRoute() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := m.currentUserID(r)
			if !ok {
				forbidden(w)
				return
			}
			if m.Engine.CanAccessRoute(r.Context(), userID, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			forbidden(w)
		})
	}
}

// RequireAPI authorizes the request path and method against the api resource
// tree.
func (m Middleware) RequireAPI() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := m.currentUserID(r)
			if !ok {
				forbidden(w)
				return
			}
			if m.Engine.CanAccessAPI(r.Context(), userID, r.URL.Path, r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			forbidden(w)
		})
	}
}

func (m Middleware) currentUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("parse session user id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

func dedupe(caps []string) []string {
	unique := make(map[string]struct{}, len(caps))
	for _, c := range caps {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		unique[c] = struct{}{}
	}
	out := make([]string, 0, len(unique))
	for c := range unique {
		out = append(out, c)
	}
	return out
}
