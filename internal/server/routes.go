package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/routemux/internal/config"
	"github.com/vyrodovalexey/routemux/internal/observability"
	"github.com/vyrodovalexey/routemux/internal/router"
	"github.com/vyrodovalexey/routemux/internal/util"
)

// RouteSet pairs a compiled routing table with the per-route HTTP
// actions derived from configuration. A RouteSet is immutable once
// built; reloads build a fresh one and swap it in.
type RouteSet struct {
	Router *router.Router

	// actions is keyed by the route identity assigned at registration.
	actions map[string]routeAction
}

// routeAction is the HTTP behavior bound to one configured route.
type routeAction struct {
	name string
	run  actionFunc
}

type actionFunc func(c *gin.Context, m *router.Match)

// BuildRouteSet compiles the configured aliases and routes into a fresh
// routing table. Any compilation failure is a configuration bug and
// aborts the whole build.
func BuildRouteSet(cfg *config.Config, logger observability.Logger) (*RouteSet, error) {
	r := router.New()
	for name, pattern := range cfg.Aliases {
		if err := r.AddAlias(name, pattern); err != nil {
			return nil, err
		}
	}

	rs := &RouteSet{
		Router:  r,
		actions: make(map[string]routeAction, len(cfg.Routes)),
	}

	for _, rc := range cfg.Routes {
		run, err := buildAction(rc)
		if err != nil {
			return nil, err
		}

		route, err := r.Register(nil, rc.Templates...)
		if err != nil {
			return nil, util.WrapError(err, "route "+rc.Name)
		}

		rs.actions[route.ID] = routeAction{name: rc.Name, run: run}
		logger.Debug("route registered",
			observability.String("route", rc.Name),
			observability.Strings("templates", rc.Templates),
		)
	}

	return rs, nil
}

// buildAction creates the HTTP behavior for one configured route.
func buildAction(rc config.Route) (actionFunc, error) {
	if rc.DirectResponse != nil {
		return buildDirectResponseAction(*rc.DirectResponse), nil
	}
	return buildProxyAction(rc)
}

// buildDirectResponseAction serves a fixed response with path parameters
// interpolated into the body.
func buildDirectResponseAction(dr config.DirectResponse) actionFunc {
	status := dr.Status
	if status == 0 {
		status = http.StatusOK
	}
	contentType := dr.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}

	return func(c *gin.Context, m *router.Match) {
		c.Data(status, contentType, []byte(interpolate(dr.Body, m.Params)))
	}
}

// buildProxyAction reverse-proxies the request to the configured target.
func buildProxyAction(rc config.Route) (actionFunc, error) {
	target, err := url.Parse(rc.Target)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("routes."+rc.Name+".target", "invalid target URL", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
		observability.GetGlobalLogger().Warn("proxy error",
			observability.String("route", rc.Name),
			observability.Error(err),
		)
		w.WriteHeader(http.StatusBadGateway)
	}

	return func(c *gin.Context, _ *router.Match) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}, nil
}

// paramRefPattern matches a {name} reference in a direct-response body.
var paramRefPattern = regexp.MustCompile(`\{[A-Za-z0-9_-]+\}`)

// interpolate substitutes {name} references in a direct-response body
// with the captured parameter values. Substitution is a single pass over
// the body, so a captured value that itself contains a {name} reference
// stays literal.
func interpolate(body string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(body, "{") {
		return body
	}
	return paramRefPattern.ReplaceAllStringFunc(body, func(ref string) string {
		if value, ok := params[ref[1:len(ref)-1]]; ok {
			return value
		}
		return ref
	})
}
