package router

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vyrodovalexey/routemux/internal/util"
)

// pathSeparator is the canonical segment separator in normalized paths.
const pathSeparator = "/"

var (
	// optionalParamPattern matches a separator plus {name?} as one unit.
	optionalParamPattern = regexp.MustCompile(`/\{([A-Za-z0-9_-]+)\?\}`)

	// requiredParamPattern matches a {name} placeholder.
	requiredParamPattern = regexp.MustCompile(`\{([A-Za-z0-9_-]+)\}`)

	// aliasNamePattern restricts alias and parameter names.
	aliasNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// CompiledPattern is an executable matcher for one route template plus
// the parameter names for its capture groups, in capture order. The
// number of capture groups always equals the number of parameter names.
type CompiledPattern struct {
	template string
	regex    *regexp.Regexp
	params   []string
}

// NormalizePath canonicalizes a path: surrounding whitespace is removed
// and the result carries a single leading slash and no trailing slash.
// Empty or whitespace-only input normalizes to "/". The same function is
// applied to templates at compile time and to paths at resolve time.
func NormalizePath(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), pathSeparator)
	if trimmed == "" {
		return pathSeparator
	}
	return pathSeparator + trimmed
}

// Compile translates a route template into a CompiledPattern using the
// aliases known at call time. The template is normalized, its text is
// treated as literal (every regex metacharacter is escaped), then the
// placeholder syntax is expanded in a fixed order: optional-parameter
// units first, then alias substitution, then the generic non-separator
// body for the remaining parameters. Parameter names are recorded
// left-to-right before any substitution rewrites the group structure, so
// capture position N always corresponds to name N.
//
// A template that does not yield a valid matcher is a configuration bug;
// Compile fails immediately with the offending template in the message.
func Compile(template string, aliases map[string]string) (*CompiledPattern, error) {
	expr := NormalizePath(template)
	expr = unquoteReserved(regexp.QuoteMeta(expr))
	expr = optionalParamPattern.ReplaceAllString(expr, `(?:/{$1})?`)

	var params []string
	for _, m := range requiredParamPattern.FindAllStringSubmatch(expr, -1) {
		params = append(params, m[1])
	}

	for _, name := range sortedAliasNames(aliases) {
		expr = strings.ReplaceAll(expr, "{"+name+"}", "("+aliases[name]+")")
	}
	expr = requiredParamPattern.ReplaceAllString(expr, `([^/]+)`)

	regex, err := compileCached("^" + expr + "$")
	if err != nil {
		return nil, util.NewPatternErrorWithCause(template, "does not compile to a valid matcher", err)
	}

	// A template whose segments are all optional, such as "/{slug?}",
	// matches the empty string with everything omitted. Normalized paths
	// are never shorter than "/", so accept the root path as that form.
	if regex.MatchString("") {
		regex, err = compileCached("^(?:" + expr + "|/)$")
		if err != nil {
			return nil, util.NewPatternErrorWithCause(template, "does not compile to a valid matcher", err)
		}
	}
	if regex.NumSubexp() != len(params) {
		return nil, util.NewPatternError(template, fmt.Sprintf(
			"%d capture groups for %d parameters; alias sub-patterns must not contain capture groups",
			regex.NumSubexp(), len(params)))
	}

	return &CompiledPattern{template: template, regex: regex, params: params}, nil
}

// unquoteReserved restores the template syntax characters {, } and ? in a
// QuoteMeta-escaped template. A backslash the caller wrote in front of a
// reserved character keeps it literal instead; QuoteMeta renders that
// sequence as three backslashes followed by the character.
func unquoteReserved(quoted string) string {
	var b strings.Builder
	b.Grow(len(quoted))

	for i := 0; i < len(quoted); i++ {
		if quoted[i] != '\\' {
			b.WriteByte(quoted[i])
			continue
		}
		// Caller-escaped reserved character: stays literal, still
		// escaped for the matcher.
		if i+3 < len(quoted) && quoted[i+1] == '\\' && quoted[i+2] == '\\' && isReserved(quoted[i+3]) {
			b.WriteByte('\\')
			b.WriteByte(quoted[i+3])
			i += 3
			continue
		}
		// Bare reserved character: restore as syntax.
		if i+1 < len(quoted) && isReserved(quoted[i+1]) {
			b.WriteByte(quoted[i+1])
			i++
			continue
		}
		// Any other QuoteMeta escape passes through unchanged.
		b.WriteByte(quoted[i])
		if i+1 < len(quoted) {
			b.WriteByte(quoted[i+1])
			i++
		}
	}

	return b.String()
}

// isReserved reports whether c is one of the template syntax characters.
func isReserved(c byte) bool {
	return c == '{' || c == '}' || c == '?'
}

// sortedAliasNames returns the alias names in a deterministic order.
func sortedAliasNames(aliases map[string]string) []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match attempts a full match of an already-normalized path and extracts
// the named parameters. A capture that did not participate in the match,
// such as an omitted optional parameter, contributes no map entry rather
// than an empty string.
func (p *CompiledPattern) Match(path string) (params map[string]string, matched bool) {
	idx := p.regex.FindStringSubmatchIndex(path)
	if idx == nil {
		return nil, false
	}

	params = make(map[string]string, len(p.params))
	for i, name := range p.params {
		start, end := idx[2*(i+1)], idx[2*(i+1)+1]
		if start < 0 {
			continue
		}
		params[name] = path[start:end]
	}

	return params, true
}

// Template returns the raw template the pattern was compiled from.
func (p *CompiledPattern) Template() string {
	return p.template
}

// Params returns a copy of the parameter names in capture order.
func (p *CompiledPattern) Params() []string {
	out := make([]string, len(p.params))
	copy(out, p.params)
	return out
}

// String returns the underlying matcher expression, useful in logs.
func (p *CompiledPattern) String() string {
	return p.regex.String()
}
