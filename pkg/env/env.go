package env

import (
	"os"
	"strings"
)

// Get reads a raw environment variable, falling back when it is unset or
// blank. Used for platform-injected values like PORT and DYNO that live
// outside the prefixed config sections.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
