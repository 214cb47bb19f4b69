// Package strings provides string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Dedupe returns the trimmed non-blank values of in, first occurrence wins, order kept
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = std.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// IsRemote reports whether src names an http(s) resource rather than a local path
func IsRemote(src string) bool {
	s := std.ToLower(std.TrimSpace(src))
	return std.HasPrefix(s, "http://") || std.HasPrefix(s, "https://")
}
