package access

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/docuvault/docuvault/internal/platform/httpx"
	"github.com/docuvault/docuvault/internal/shared"
)

// Handler exposes the engine's read-only query surface over HTTP.
type Handler struct {
	logger *slog.Logger
	engine *Engine
	mw     Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, engine *Engine, mw Middleware) *Handler {
	return &Handler{logger: logger, engine: engine, mw: mw}
}

// navigationNode is the JSON shape of a pruned navigation entry.
type navigationNode struct {
	ID        int64            `json:"id"`
	Path      string           `json:"path"`
	Name      string           `json:"name"`
	SortOrder int              `json:"sort_order"`
	Children  []navigationNode `json:"children,omitempty"`
}

type capabilityGroup struct {
	Category     string   `json:"category"`
	Capabilities []string `json:"capabilities"`
}

// MountRoutes registers the engine query routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/navigation", h.navigation)
	r.Get("/me/capabilities", h.myCapabilities)
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireAny(shared.CapRoleManage))
		r.Get("/capabilities/catalog", h.capabilityCatalog)
	})
}

func (h *Handler) navigation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	forest, err := h.engine.GetNavigationForUser(r.Context(), userID)
	if err != nil {
		h.logger.Warn("navigation lookup failed", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	httpx.JSON(w, http.StatusOK, toNavigationNodes(forest))
}

func (h *Handler) myCapabilities(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	set, err := h.engine.ResolveCapabilities(r.Context(), userID)
	if err != nil {
		h.logger.Warn("capability resolution failed", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"capabilities": set.Names()})
}

// capabilityCatalog lists known capabilities grouped by display category.
func (h *Handler) capabilityCatalog(w http.ResponseWriter, r *http.Request) {
	names, err := h.engine.store.ListCapabilityNames(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, groupByCategory(names))
}

// groupByCategory derives a display category from the capability name prefix
// (the token before the first underscore), title-cased for the admin UI.
func groupByCategory(names []string) []capabilityGroup {
	titler := cases.Title(language.English)
	grouped := make(map[string][]string)
	for _, name := range names {
		prefix, _, _ := strings.Cut(name, "_")
		category := titler.String(strings.ToLower(prefix))
		grouped[category] = append(grouped[category], name)
	}
	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	groups := make([]capabilityGroup, 0, len(categories))
	for _, category := range categories {
		names := grouped[category]
		sort.Strings(names)
		groups = append(groups, capabilityGroup{Category: category, Capabilities: names})
	}
	return groups
}

func (h *Handler) currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, false
	}
	return id, true
}

func toNavigationNodes(forest Forest) []navigationNode {
	nodes := make([]navigationNode, 0, len(forest))
	for _, n := range forest {
		nodes = append(nodes, navigationNode{
			ID:        n.Resource.ID,
			Path:      n.Resource.Path,
			Name:      n.Resource.Name,
			SortOrder: n.Resource.SortOrder,
			Children:  toNavigationNodes(n.Children),
		})
	}
	return nodes
}
