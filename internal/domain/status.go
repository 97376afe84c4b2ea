// Package domain holds the values exchanged between the status-file parser,
// the aggregator and the metric adapters.
package domain

import "time"

// StatusSuffix is the file name suffix bees uses for its per-filesystem reports.
const StatusSuffix = ".status"

// ExtentSize enumerates the extent-size classes bees reports progress for.
type ExtentSize uint8

const (
	extentUnknown ExtentSize = iota
	ExtentMax
	Extent32M
	Extent8M
	Extent2M
	Extent512K
	Extent128K
)

var extentNames = [...]string{
	ExtentMax:  "max",
	Extent32M:  "32M",
	Extent8M:   "8M",
	Extent2M:   "2M",
	Extent512K: "512K",
	Extent128K: "128K",
}

// ParseExtentSize maps the textual class used in the progress table to an ExtentSize.
func ParseExtentSize(s string) (ExtentSize, bool) {
	for i, name := range extentNames {
		if i != int(extentUnknown) && name == s {
			return ExtentSize(i), true
		}
	}
	return extentUnknown, false
}

func (e ExtentSize) String() string {
	if e == extentUnknown || int(e) >= len(extentNames) {
		return "unknown"
	}
	return extentNames[e]
}

// Point is the scan position of one extent-size class: either an offset or idle.
type Point struct {
	Offset uint64
	Idle   bool
}

// IdlePoint is the value of the `idle` sentinel.
var IdlePoint = Point{Idle: true}

// AtOffset returns a non-idle point.
func AtOffset(off uint64) Point {
	return Point{Offset: off}
}

// ProgressRow is one parsed line of the PROGRESS table.
type ProgressRow struct {
	DataSize string
	Point    Point
	GenMin   int64
	GenMax   int64
	Extent   ExtentSize
}

// Report is everything recovered from one status file.
type Report struct {
	ModTime  time.Time
	Counters map[string]uint64
	Progress []ProgressRow
}

// Source identifies one discovered status file for the duration of a collection cycle.
type Source struct {
	ModTime time.Time
	ID      string
	Name    string
}
