package statusfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vshulcz/bees-exporter/internal/domain"
)

const (
	progressHeader     = "extsz"
	progressSeparator  = "-"
	progressTerminator = "total"
	progressColumns    = 5
	idleSentinel       = "idle"
)

// ParseProgress parses the lines that follow a PROGRESS: header.
//
// A missing column header or separator rejects the whole table. Past that point
// bad rows are skipped and reported while the remaining rows are still returned.
// Parsing stops at the "total" summary row.
func ParseProgress(lines []string) ([]domain.ProgressRow, error) {
	if len(lines) < 1 || !strings.HasPrefix(lines[0], progressHeader) {
		return nil, fmt.Errorf("%w: expected header starting with %q", domain.ErrSectionFormat, progressHeader)
	}
	if len(lines) < 2 || !strings.HasPrefix(lines[1], progressSeparator) {
		return nil, fmt.Errorf("%w: expected separator line", domain.ErrSectionFormat)
	}

	var (
		rows []domain.ProgressRow
		errs []error
	)
	for _, line := range lines[2:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == progressTerminator {
			break
		}
		row, err := parseProgressRow(fields)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", domain.ErrRowFormat, line, err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, errors.Join(errs...)
}

// parseProgressRow reads the first five columns; later columns (cycle start,
// time left, ETA) are not exported.
func parseProgressRow(fields []string) (domain.ProgressRow, error) {
	if len(fields) < progressColumns {
		return domain.ProgressRow{}, fmt.Errorf("want %d columns, got %d", progressColumns, len(fields))
	}
	extent, ok := domain.ParseExtentSize(fields[0])
	if !ok {
		return domain.ProgressRow{}, fmt.Errorf("invalid extsz value %q", fields[0])
	}

	point := domain.IdlePoint
	if fields[2] != idleSentinel {
		off, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return domain.ProgressRow{}, fmt.Errorf("point: %w", err)
		}
		point = domain.AtOffset(off)
	}
	genMin, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return domain.ProgressRow{}, fmt.Errorf("gen_min: %w", err)
	}
	genMax, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return domain.ProgressRow{}, fmt.Errorf("gen_max: %w", err)
	}

	return domain.ProgressRow{
		Extent:   extent,
		DataSize: fields[1],
		Point:    point,
		GenMin:   genMin,
		GenMax:   genMax,
	}, nil
}
