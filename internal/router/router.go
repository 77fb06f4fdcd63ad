package router

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/routemux/internal/util"
)

// Handler is invoked for a dispatched route with the match that selected
// it. A nil return reports success. The router never inspects the match
// beyond passing it through.
type Handler func(ctx context.Context, m *Match) error

// Route is the identity shared by all templates registered in one
// Register call. It is an opaque value from the router's point of view:
// stored, returned on match, never interpreted.
type Route struct {
	// ID uniquely identifies the registration.
	ID string

	// Templates are the raw templates the route was registered with.
	Templates []string

	handler Handler
}

// Match is the result of a successful resolution.
type Match struct {
	// Route is the identity of the matched registration.
	Route *Route

	// Path is the normalized path that matched.
	Path string

	// Params maps parameter names to the raw path segments they
	// captured. Omitted optional parameters have no entry.
	Params map[string]string
}

// routeEntry pairs a compiled pattern with its route identity.
type routeEntry struct {
	pattern *CompiledPattern
	route   *Route
}

// Router holds an alias table and an ordered routing table. Aliases are
// read at compile time only, so routes registered before an alias was
// added do not see it. The routing table is append-only and registration
// order is the authoritative precedence rule: the first matching entry
// wins. A read-write mutex guards both tables, so resolving while
// registration is still in progress is safe, though the intended
// lifecycle is build-then-serve.
type Router struct {
	mu      sync.RWMutex
	aliases map[string]string
	entries []routeEntry
}

// New creates an empty router.
func New() *Router {
	return &Router{
		aliases: make(map[string]string),
	}
}

// AddAlias upserts a named sub-pattern that replaces the match body of
// same-named parameters in templates compiled afterwards. Only the name
// syntax is checked here; an invalid alias body surfaces when a route
// using it is compiled.
func (r *Router) AddAlias(name, pattern string) error {
	if !aliasNamePattern.MatchString(name) {
		return util.WrapError(util.ErrInvalidInput, fmt.Sprintf("invalid alias name %q", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[name] = pattern

	return nil
}

// Register compiles each template against the current alias table and
// appends the results to the routing table in the order given, all bound
// to one shared route identity. At least one template is required. On a
// compilation error the routing table is left untouched.
func (r *Router) Register(handler Handler, templates ...string) (*Route, error) {
	if len(templates) == 0 {
		return nil, util.WrapError(util.ErrInvalidInput, "register requires at least one template")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	compiled := make([]*CompiledPattern, 0, len(templates))
	for _, template := range templates {
		pattern, err := Compile(template, r.aliases)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, pattern)
	}

	route := &Route{
		ID:        uuid.NewString(),
		Templates: append([]string(nil), templates...),
		handler:   handler,
	}
	for _, pattern := range compiled {
		r.entries = append(r.entries, routeEntry{pattern: pattern, route: route})
	}

	return route, nil
}

// Resolve matches a path against the routing table in registration order
// and returns the first hit. A miss is reported as a RouteNotFoundError
// satisfying errors.Is(err, util.ErrNotFound); it is a normal outcome for
// unroutable paths, not a failure.
func (r *Router) Resolve(path string) (*Match, error) {
	normalized := NormalizePath(path)
	metrics := getRouterMetrics()
	metrics.resolveTotal.Inc()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if params, ok := entry.pattern.Match(normalized); ok {
			metrics.resolveMatches.Inc()
			return &Match{Route: entry.route, Path: normalized, Params: params}, nil
		}
	}

	metrics.resolveMisses.Inc()
	return nil, util.NewRouteNotFoundError(normalized)
}

// ResolveURL routes the path component of a raw URL, ignoring scheme,
// host, query and fragment. Input that does not parse as a URL is
// treated the same as an unroutable path.
func (r *Router) ResolveURL(raw string) (*Match, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, util.NewRouteNotFoundError(raw)
	}
	return r.Resolve(u.Path)
}

// Dispatch resolves the path and invokes the bound handler at most once.
// A registration without a handler dispatches as a plain success.
func (r *Router) Dispatch(ctx context.Context, path string) error {
	m, err := r.Resolve(path)
	if err != nil {
		return err
	}
	if m.Route.handler == nil {
		return nil
	}
	return m.Route.handler(ctx, m)
}

// Len returns the number of entries in the routing table.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Templates returns the compiled templates in registration order.
func (r *Router) Templates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.pattern.Template())
	}
	return out
}
