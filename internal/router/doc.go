// Package router compiles route templates into executable matchers and
// resolves URL paths against them.
//
// A template is a path whose segments are either literal text, required
// parameters ({name}) or optional parameters ({name?}):
//
//	/users/{id}/posts/{slug?}
//
// A required parameter captures one or more non-separator characters. An
// optional parameter makes the preceding separator and the parameter
// optional as one unit, so /posts/{slug?} matches both /posts and
// /posts/hello. Aliases narrow the match body of a same-named parameter:
//
//	r := router.New()
//	_ = r.AddAlias("id", "[0-9]+")
//	route, err := r.Register(handler, "/users/{id}")
//
// Literal braces and question marks are written with a leading backslash.
// Templates are matched against the whole normalized path; resolution
// scans the routing table in registration order and the first match wins,
// so more specific templates must be registered before overlapping
// general ones.
package router
