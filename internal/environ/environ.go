// Package environ abstracts process-environment access behind a small
// injectable Source interface so configuration lookups can be tested
// without mutating the real process environment.
//
// Throughout the gateway an environment variable that is set to the empty
// string is treated exactly like one that is unset.
package environ

import "os"

// Source provides read access to a set of environment variables.
type Source interface {
	// Get returns the value of key, or "" when the variable is unset.
	// Callers must treat "" and unset identically.
	Get(key string) string
	// All returns every variable as "KEY=value" pairs, in no particular order.
	All() []string
}

// OS is a Source backed by the real process environment.
type OS struct{}

// Get returns os.Getenv(key).
func (OS) Get(key string) string { return os.Getenv(key) }

// All returns os.Environ().
func (OS) All() []string { return os.Environ() }

// Static is a fixed, map-backed Source for tests.
type Static map[string]string

// Get returns the mapped value, or "" when the key is absent.
func (s Static) Get(key string) string { return s[key] }

// All returns the map as "KEY=value" pairs.
func (s Static) All() []string {
	out := make([]string, 0, len(s))
	for k, v := range s {
		out = append(out, k+"="+v)
	}
	return out
}

// IsSet reports whether key resolves to a non-empty value in src.
func IsSet(src Source, key string) bool {
	return src.Get(key) != ""
}

// GetOrElse returns the value of key, or fallback when the variable is
// unset or empty.
func GetOrElse(src Source, key, fallback string) string {
	if v := src.Get(key); v != "" {
		return v
	}
	return fallback
}
