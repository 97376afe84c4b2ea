// Package sandbox confines the exporter to reading the bees work directory.
package sandbox

// Status describes what Restrict managed to apply.
type Status int

const (
	// Unsupported means the kernel or the build cannot enforce a ruleset.
	// The process keeps running unconfined.
	Unsupported Status = iota
	// Enforced means only the work directory remains readable.
	Enforced
)

func (s Status) String() string {
	if s == Enforced {
		return "enforced"
	}
	return "unsupported"
}
