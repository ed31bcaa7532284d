// Package env reads process environment variables with fallbacks, for the
// few knobs that live outside the typed config (consulted before config is
// loaded, or in one-off commands).
package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return fallback
	}
	return val
}

// Bool reads key as a boolean. Accepted true values are "1", "true", "yes"
// and "on" in any case; everything else, including unset, yields fallback.
func Bool(key string, fallback bool) bool {
	val := strings.ToLower(Get(key, ""))
	switch val {
	case "":
		return fallback
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
