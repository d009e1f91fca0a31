package agentdesk

import "strings"

// matchKeyword reports whether the lower-cased query is a substring of any
// of the given fields, case-insensitively. No tokenization, no ranking;
// the match is boolean.
func matchKeyword(query string, fields ...string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return false
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
