// Package misc contains small process-level helpers.
package misc

import (
	"os"
	"strings"
)

// Getenv returns the trimmed value of key, or def when it is unset or blank.
func Getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetBool reads a boolean switch from the environment. Unknown spellings fall
// back to def.
func GetBool(key string, def bool) bool {
	if b, ok := ParseBool(os.Getenv(key)); ok {
		return b
	}
	return def
}

// ParseBool accepts the usual yes/no spellings, case-insensitively.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, true
	case "0", "false", "f", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
