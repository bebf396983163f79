// Package env holds tiny helpers for reading raw process environment
// values that sit outside the envconfig-managed configuration.
package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

// Is reports whether the variable equals want, case-insensitively.
func Is(key, want string) bool {
	return strings.EqualFold(Get(key, ""), want)
}
