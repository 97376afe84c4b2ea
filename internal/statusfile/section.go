package statusfile

import "strings"

// section is the part of a status file the parser is currently inside.
type section uint8

const (
	sectionNone section = iota
	sectionTotal
	sectionRates
	sectionProgress
)

func (s section) String() string {
	switch s {
	case sectionTotal:
		return "TOTAL"
	case sectionRates:
		return "RATES"
	case sectionProgress:
		return "PROGRESS"
	default:
		return "NONE"
	}
}

var sectionHeaders = []struct {
	prefix string
	to     section
}{
	{"TOTAL:", sectionTotal},
	{"RATES:", sectionRates},
	{"PROGRESS:", sectionProgress},
}

// transition reports whether line is a section header. On a match it returns the
// new section and whatever follows the header on the same line.
func transition(line string) (section, string, bool) {
	for _, h := range sectionHeaders {
		if rest, ok := strings.CutPrefix(line, h.prefix); ok {
			return h.to, rest, true
		}
	}
	return sectionNone, "", false
}
