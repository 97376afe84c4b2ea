package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when a status file vanished or could not be read.
	ErrSourceUnavailable = errors.New("status source unavailable")
	// ErrSectionFormat marks a PROGRESS section whose header or separator is missing.
	ErrSectionFormat = errors.New("unexpected format in PROGRESS section")
	// ErrRowFormat marks a single progress row or counter pair that could not be parsed.
	ErrRowFormat = errors.New("malformed row")
	// ErrUnitConversion indicates a data-size string with an unknown suffix or numeral.
	ErrUnitConversion = errors.New("cannot convert data size")
	// ErrEmptyResult is reported when a status file yields no counters or no progress rows.
	ErrEmptyResult = errors.New("empty result")
)

// Anomalies flattens an error produced by errors.Join into its parts.
// A nil error yields nil, a plain error yields a one-element slice.
func Anomalies(err error) []error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, Anomalies(e)...)
	}
	return out
}
