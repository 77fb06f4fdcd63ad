package config

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/vyrodovalexey/routemux/internal/util"
)

// aliasNamePattern restricts alias names to the parameter-name charset.
var aliasNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks the configuration for structural errors. Template
// syntax itself is not checked here; the route compiler is the authority
// on that and fails at route build time.
func Validate(cfg *Config) error {
	if cfg == nil {
		return util.NewConfigError("", "config is nil")
	}

	if cfg.Gateway.Listen == "" {
		return util.NewConfigError("gateway.listen", "must not be empty")
	}

	if err := validateRateLimit(cfg.Gateway.RateLimit); err != nil {
		return err
	}

	for name := range cfg.Aliases {
		if !aliasNamePattern.MatchString(name) {
			return util.NewConfigError(
				fmt.Sprintf("aliases[%s]", name),
				"alias names must match [A-Za-z0-9_-]+")
		}
	}

	seen := make(map[string]bool, len(cfg.Routes))
	for i, route := range cfg.Routes {
		if err := validateRoute(i, route, seen); err != nil {
			return err
		}
	}

	return nil
}

// validateRateLimit checks the rate limit settings.
func validateRateLimit(rl *RateLimitSettings) error {
	if rl == nil || !rl.Enabled {
		return nil
	}
	if rl.RequestsPerSecond <= 0 {
		return util.NewConfigError("gateway.rateLimit.requestsPerSecond", "must be positive")
	}
	if rl.Burst < 0 {
		return util.NewConfigError("gateway.rateLimit.burst", "must not be negative")
	}
	return nil
}

// validateRoute checks a single route entry.
func validateRoute(i int, route Route, seen map[string]bool) error {
	field := func(suffix string) string {
		return fmt.Sprintf("routes[%d].%s", i, suffix)
	}

	if route.Name == "" {
		return util.NewConfigError(field("name"), "must not be empty")
	}
	if seen[route.Name] {
		return util.NewConfigError(field("name"), fmt.Sprintf("duplicate route name %q", route.Name))
	}
	seen[route.Name] = true

	if len(route.Templates) == 0 {
		return util.NewConfigError(field("templates"), "at least one template is required")
	}
	for j, template := range route.Templates {
		if template == "" {
			return util.NewConfigError(
				fmt.Sprintf("routes[%d].templates[%d]", i, j),
				"must not be empty")
		}
	}

	hasResponse := route.DirectResponse != nil
	hasTarget := route.Target != ""
	if hasResponse == hasTarget {
		return util.NewConfigError(field(""), "exactly one of directResponse and target is required")
	}

	if hasResponse {
		status := route.DirectResponse.Status
		if status != 0 && (status < 100 || status > 599) {
			return util.NewConfigError(field("directResponse.status"), "must be a valid HTTP status")
		}
	}

	if hasTarget {
		u, err := url.Parse(route.Target)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return util.NewConfigError(field("target"), fmt.Sprintf("%q is not an absolute URL", route.Target))
		}
	}

	return nil
}
