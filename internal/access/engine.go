package access

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// MetricsRecorder receives cache outcome counts. The observability package
// provides the Prometheus-backed implementation.
type MetricsRecorder interface {
	CacheHit(kind string)
	CacheMiss(kind string)
}

// Options tunes engine construction.
type Options struct {
	// TTL bounds staleness of cached capability sets and forests.
	// Defaults to DefaultTTL.
	TTL time.Duration
	// Clock is injectable for tests. Defaults to time.Now.
	Clock func() time.Time
	// Metrics is optional.
	Metrics MetricsRecorder
}

// Engine is the public query surface of the access-control core. Every
// decision is a pure function of the current store/cache state and its
// inputs, and every internal failure resolves to a denial.
type Engine struct {
	store    Store
	resolver *Resolver
	logger   *slog.Logger

	caps    *ttlCache[CapabilitySet]
	forests *ttlCache[Forest]

	// lastGood retains the most recent structurally valid forest per type so
	// a broken refresh degrades to stale data instead of an outage.
	mu       sync.RWMutex
	lastGood map[ResourceType]Forest
}

// NewEngine constructs an Engine over the given store.
func NewEngine(store Store, logger *slog.Logger, opts Options) *Engine {
	e := &Engine{
		store:    store,
		resolver: NewResolver(store, logger),
		logger:   logger,
		caps:     newTTLCache[CapabilitySet](opts.TTL, opts.Clock),
		forests:  newTTLCache[Forest](opts.TTL, opts.Clock),
		lastGood: make(map[ResourceType]Forest),
	}
	if opts.Metrics != nil {
		m := opts.Metrics
		e.caps.onHit = func() { m.CacheHit("capabilities") }
		e.caps.onMiss = func() { m.CacheMiss("capabilities") }
		e.forests.onHit = func() { m.CacheHit("forest") }
		e.forests.onMiss = func() { m.CacheMiss("forest") }
	}
	return e
}

// ResolveCapabilities returns the cached effective capability set for a user.
func (e *Engine) ResolveCapabilities(ctx context.Context, userID int64) (CapabilitySet, error) {
	return e.caps.getOrCompute(ctx, userCacheKey(userID), func(ctx context.Context) (CapabilitySet, error) {
		return e.resolver.ResolveCapabilities(ctx, userID)
	})
}

// HasCapability reports exact membership of name in the user's resolved set.
// Any resolution failure denies.
func (e *Engine) HasCapability(ctx context.Context, userID int64, name string) bool {
	set, err := e.ResolveCapabilities(ctx, userID)
	if err != nil {
		e.deny(ctx, "has capability", err)
		return false
	}
	return set.Has(name)
}

// HasAnyCapability reports whether the user's resolved set intersects names.
func (e *Engine) HasAnyCapability(ctx context.Context, userID int64, names ...string) bool {
	set, err := e.ResolveCapabilities(ctx, userID)
	if err != nil {
		e.deny(ctx, "has any capability", err)
		return false
	}
	return set.HasAny(names...)
}

// HasAllCapabilities reports whether names is a subset of the user's resolved set.
func (e *Engine) HasAllCapabilities(ctx context.Context, userID int64, names ...string) bool {
	set, err := e.ResolveCapabilities(ctx, userID)
	if err != nil {
		e.deny(ctx, "has all capabilities", err)
		return false
	}
	return set.HasAll(names...)
}

// GetNavigationForUser returns the navigation forest pruned to what the user
// may see. A node survives when its required capability is absent or held, or
// when at least one descendant survives, so a hidden parent with a visible
// grandchild still renders. Sibling order is preserved.
func (e *Engine) GetNavigationForUser(ctx context.Context, userID int64) (Forest, error) {
	set, err := e.ResolveCapabilities(ctx, userID)
	if err != nil {
		return nil, err
	}
	forest, err := e.Forest(ctx, TypeNavigation)
	if err != nil {
		return nil, err
	}
	if BypassesResourceChecks(set) {
		return forest, nil
	}
	return pruneForest(forest, set), nil
}

// CanAccessRoute decides whether the user may open the UI route at path.
// Unknown routes deny; a matched route without a required capability allows
// any authenticated caller.
func (e *Engine) CanAccessRoute(ctx context.Context, userID int64, path string) bool {
	return e.decideResource(ctx, userID, TypeRoute, path, "")
}

// CanAccessAPI decides whether the user may call method on the API endpoint
// at path. Each method is an independent resource entry.
func (e *Engine) CanAccessAPI(ctx context.Context, userID int64, path, method string) bool {
	return e.decideResource(ctx, userID, TypeAPI, path, method)
}

func (e *Engine) decideResource(ctx context.Context, userID int64, t ResourceType, path, method string) bool {
	set, err := e.ResolveCapabilities(ctx, userID)
	if err != nil {
		e.deny(ctx, "resolve for resource decision", err)
		return false
	}
	if BypassesResourceChecks(set) {
		return true
	}
	forest, err := e.Forest(ctx, t)
	if err != nil {
		e.deny(ctx, "load resource forest", err)
		return false
	}
	res, ok := matchResource(flatten(forest), path, method)
	if !ok {
		return false
	}
	if res.RequiredCapability == nil {
		return true
	}
	return set.Has(*res.RequiredCapability)
}

// Forest returns the cached forest for a resource type, rebuilding it from
// the store when stale. A rebuild that reports a structural error serves the
// last good forest and logs the fault rather than failing per request.
func (e *Engine) Forest(ctx context.Context, t ResourceType) (Forest, error) {
	return e.forests.getOrCompute(ctx, string(t), func(ctx context.Context) (Forest, error) {
		resources, err := e.store.ListResources(ctx, t)
		if err != nil {
			return nil, err
		}
		forest, err := BuildTree(resources, t)
		if err != nil {
			if errors.Is(err, ErrCycle) || errors.Is(err, ErrDanglingParent) {
				e.logger.Error("resource forest rebuild failed, serving last good",
					slog.String("type", string(t)), slog.Any("error", err))
				if stale, ok := e.lastGoodForest(t); ok {
					return stale, nil
				}
			}
			return nil, err
		}
		e.warnDanglingCapabilities(ctx, t, resources)
		e.setLastGoodForest(t, forest)
		return forest, nil
	})
}

// InvalidateUser drops the cached capability set for one user. Administrative
// flows call it after a user-role mutation.
func (e *Engine) InvalidateUser(userID int64) {
	e.caps.invalidate(userCacheKey(userID))
}

// InvalidateAll drops every cached capability set. Role-capability mutations
// affect every holder of the role, so the whole cache goes rather than
// attempting incremental fan-out.
func (e *Engine) InvalidateAll() {
	e.caps.invalidateAll()
}

// InvalidateResources drops the cached forests after any resource mutation.
func (e *Engine) InvalidateResources() {
	e.forests.invalidateAll()
}

// warnDanglingCapabilities surfaces required capability names that do not
// exist. Such resources fail closed for everyone without an admin bypass; the
// warning gives operators a chance to fix the configuration.
func (e *Engine) warnDanglingCapabilities(ctx context.Context, t ResourceType, resources []Resource) {
	known, err := e.store.ListCapabilityNames(ctx)
	if err != nil {
		e.logger.Warn("skipping dangling capability check", slog.Any("error", err))
		return
	}
	set := NewCapabilitySet(known...)
	for _, res := range resources {
		if res.RequiredCapability != nil && !set.Has(*res.RequiredCapability) {
			e.logger.Warn("resource references unknown capability",
				slog.String("type", string(t)),
				slog.String("path", res.Path),
				slog.String("capability", *res.RequiredCapability))
		}
	}
}

func (e *Engine) lastGoodForest(t ResourceType) (Forest, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	forest, ok := e.lastGood[t]
	return forest, ok
}

func (e *Engine) setLastGoodForest(t ResourceType, forest Forest) {
	e.mu.Lock()
	e.lastGood[t] = forest
	e.mu.Unlock()
}

func (e *Engine) deny(ctx context.Context, op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	e.logger.Warn("access denied on error", slog.String("op", op), slog.Any("error", err))
}

func pruneForest(nodes Forest, set CapabilitySet) Forest {
	var out Forest
	for _, node := range nodes {
		children := pruneForest(node.Children, set)
		visible := node.Resource.RequiredCapability == nil || set.Has(*node.Resource.RequiredCapability)
		if visible || len(children) > 0 {
			out = append(out, &Node{Resource: node.Resource, Children: children})
		}
	}
	return out
}

func flatten(forest Forest) []Resource {
	var resources []Resource
	forest.Walk(func(n *Node) {
		resources = append(resources, n.Resource)
	})
	return resources
}

func userCacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
