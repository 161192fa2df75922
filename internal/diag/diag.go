// Package diag selects and redacts environment variables for diagnostic
// display. Both operations are pure functions over a snapshot of the
// environment; nothing here reads process state directly.
package diag

import (
	"sort"
	"strings"
)

// relevantSubstrings marks a variable as diagnostic-relevant when its name
// contains any of these. exactNames are included regardless.
var (
	relevantSubstrings = []string{
		"GOOSE", "ANTHROPIC", "OPENAI", "GOOGLE", "DATABRICKS", "OLLAMA", "GENAI",
	}
	exactNames = []string{"PATH", "HOME"}

	// sensitiveSubstrings marks a variable's value as secret-bearing.
	sensitiveSubstrings = []string{"API_KEY", "TOKEN"}
)

// maskThreshold is the minimum value length that gets redacted. Shorter
// values are returned as-is since a prefix+suffix mask would reveal more
// than it hides.
const maskThreshold = 10

// Relevant reports whether the named variable belongs in diagnostic output.
func Relevant(key string) bool {
	for _, name := range exactNames {
		if key == name {
			return true
		}
	}
	for _, sub := range relevantSubstrings {
		if strings.Contains(key, sub) {
			return true
		}
	}
	return false
}

// Sensitive reports whether the named variable holds a secret.
func Sensitive(key string) bool {
	for _, sub := range sensitiveSubstrings {
		if strings.Contains(key, sub) {
			return true
		}
	}
	return false
}

// Mask redacts value when key is sensitive and the value is long enough,
// keeping the first 10 and last 4 characters. Short values pass through
// unchanged.
func Mask(key, value string) string {
	if !Sensitive(key) || len(value) <= maskThreshold {
		return value
	}
	return value[:10] + "..." + value[len(value)-4:]
}

// FilterEnviron takes "KEY=value" pairs (as returned by os.Environ) and
// returns the relevant subset with sensitive values masked, keyed by
// variable name.
func FilterEnviron(environ []string) map[string]string {
	filtered := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !Relevant(key) {
			continue
		}
		filtered[key] = Mask(key, value)
	}
	return filtered
}

// SortedKeys returns the keys of a filtered environment in lexical order,
// for stable diagnostic rendering.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
