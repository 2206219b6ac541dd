// Package env reads raw process environment variables for the few settings
// that must resolve before the typed config is loaded.
package env

import "os"

// Get looks up key in the environment, returning fallback when the
// variable is unset or empty.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
