package cache

import (
	"strings"

	"github.com/tidwall/match"
)

// Pattern syntax shared by every backend, the subset of Redis MATCH both
// sides agree on:
//
//	*    any sequence of characters, '/' and ':' included
//	?    any single character
//	\c   the literal character c
//
// Redis also understands [...] classes. Callers escape '[' and ']' with
// EscapePattern rather than rely on them.

var patternEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// EscapePattern quotes s so that it matches only itself.
func EscapePattern(s string) string {
	return patternEscaper.Replace(s)
}

// matchPattern reports whether key matches pattern the way Redis MATCH
// would for the supported syntax.
func matchPattern(pattern, key string) bool {
	return match.Match(key, pattern)
}
