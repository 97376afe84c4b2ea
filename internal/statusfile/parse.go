// Package statusfile parses the status reports bees writes to its work directory.
//
// A report is split into sections by header lines:
//
//	TOTAL:
//		addr_block=25 crawl_done=3
//	RATES:
//		addr_block=0.1
//	PROGRESS:
//	extsz   datasz  point  gen_min  gen_max
//	-----   ------  -----  -------  -------
//	  max   1.5G    idle   0        1234
//	total   ...
//
// Only TOTAL counters and the PROGRESS table are extracted. Parsing is best
// effort: every function returns what it could recover together with an error
// that joins all anomalies seen on the way (see domain.Anomalies).
package statusfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/vshulcz/bees-exporter/internal/domain"
)

const maxLineSize = 1 << 20

var counterPattern = regexp.MustCompile(`(\w+)=(\d+)`)

// Parse runs the section state machine over the lines of one status file.
// The returned report has no ModTime; the caller owns the file handle.
func Parse(lines []string) (domain.Report, error) {
	rep := domain.Report{Counters: make(map[string]uint64)}
	var errs []error

	state := sectionNone
	for i, line := range lines {
		if next, rest, ok := transition(line); ok {
			state = next
			if state == sectionProgress {
				rows, err := ParseProgress(lines[i+1:])
				rep.Progress = rows
				if err != nil {
					errs = append(errs, err)
				}
				break
			}
			if state != sectionTotal {
				continue
			}
			line = rest
		}
		if state == sectionTotal {
			if err := scanCounters(line, rep.Counters); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(rep.Counters) == 0 {
		errs = append(errs, fmt.Errorf("%w: no counters in TOTAL section", domain.ErrEmptyResult))
	}
	if len(rep.Progress) == 0 {
		errs = append(errs, fmt.Errorf("%w: no PROGRESS rows", domain.ErrEmptyResult))
	}
	return rep, errors.Join(errs...)
}

func scanCounters(line string, into map[string]uint64) error {
	var errs []error
	for _, m := range counterPattern.FindAllStringSubmatch(line, -1) {
		v, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: counter %s: %v", domain.ErrRowFormat, m[1], err))
			continue
		}
		into[m[1]] = v
	}
	return errors.Join(errs...)
}

// ReadLines splits r into lines without their terminators.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
