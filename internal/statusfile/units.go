package statusfile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vshulcz/bees-exporter/internal/domain"
)

var unitMultipliers = map[byte]float64{
	'K': 1 << 10,
	'M': 1 << 20,
	'G': 1 << 30,
	'T': 1 << 40,
}

// ParseDataSize converts a bees data-size string such as "1.5M" into bytes.
// The numeral may be fractional; the result is truncated.
func ParseDataSize(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", domain.ErrUnitConversion)
	}
	mult, ok := unitMultipliers[s[len(s)-1]]
	if !ok {
		return 0, fmt.Errorf("%w: %q has no K/M/G/T suffix", domain.ErrUnitConversion, s)
	}
	n, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", domain.ErrUnitConversion, s, err)
	}
	v := n * mult
	if math.IsNaN(v) || v < 0 || v >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: %q out of range", domain.ErrUnitConversion, s)
	}
	return uint64(v), nil
}
