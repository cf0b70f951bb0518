package cache

import (
	"net/url"
	"sort"
	"strings"
)

// RequestKey derives a deterministic cache key from an HTTP request. Query
// parameters are canonicalized by sorted name so equivalent requests with
// differently-ordered parameters share one entry. The principal's id and
// role are folded in when present so cached responses never leak across
// user scopes.
func RequestKey(method, path string, query url.Values, principalID, role string) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(':')
	b.WriteString(path)

	if len(query) > 0 {
		names := make([]string, 0, len(query))
		for name := range query {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteByte('?')
		for i, name := range names {
			values := append([]string(nil), query[name]...)
			sort.Strings(values)
			for j, v := range values {
				if i > 0 || j > 0 {
					b.WriteByte('&')
				}
				b.WriteString(name)
				b.WriteByte('=')
				b.WriteString(v)
			}
		}
	}

	if principalID != "" {
		b.WriteByte(':')
		b.WriteString(role)
		b.WriteByte(':')
		b.WriteString(principalID)
	}
	return b.String()
}

// EntityKey builds a resource-scoped key, e.g. students:list:inst-1:p0l10.
func EntityKey(parts ...string) string {
	return strings.Join(parts, ":")
}
