package media

import "strings"

// BaseType strips parameters from a MIME type and lowercases it:
// "video/webm;codecs=vp9" becomes "video/webm".
func BaseType(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

// MatchesType reports whether mime is accepted by patterns. Patterns are
// exact types, "type/*" wildcards, or "*" and "*/*" for anything. An empty
// list accepts everything.
func MatchesType(mime string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := BaseType(mime)
	for _, p := range patterns {
		p = BaseType(p)
		switch {
		case p == "*" || p == "*/*" || p == base:
			return true
		case strings.HasSuffix(p, "/*") && strings.HasPrefix(base, strings.TrimSuffix(p, "*")):
			return true
		}
	}
	return false
}
