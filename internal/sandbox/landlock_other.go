//go:build !linux

package sandbox

// ABI always reports 0 outside Linux.
func ABI() int { return 0 }

// Restrict is a no-op outside Linux.
func Restrict(string) (Status, error) { return Unsupported, nil }
