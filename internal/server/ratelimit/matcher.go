package ratelimit

import "strings"

// MatchEndpoint returns the rule for method and path, or nil when only the default applies.
//
// Rule paths are slash-separated patterns. A "*" segment matches exactly one path segment and a
// trailing "/" turns the rule into a prefix match. Exact rules win over prefix rules.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: "/health", Method: "GET"}
	}

	var prefix *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		exact, matched := matchPattern(rule.Path, path)
		if !matched {
			continue
		}
		if exact {
			return rule
		}
		if prefix == nil {
			prefix = rule
		}
	}
	return prefix
}

func matchPattern(pattern, path string) (exact, matched bool) {
	isPrefix := strings.HasSuffix(pattern, "/")
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")

	if len(got) < len(want) || (!isPrefix && len(got) != len(want)) {
		return false, false
	}
	for i, seg := range want {
		if seg != "*" && seg != got[i] {
			return false, false
		}
	}
	if isPrefix && len(got) == len(want) {
		// "/api/cvs/" should not swallow "/api/cvs" itself.
		return false, false
	}
	return !isPrefix, true
}
