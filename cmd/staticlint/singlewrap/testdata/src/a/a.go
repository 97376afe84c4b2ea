package a

import (
	"errors"
	"fmt"
)

var errRow = errors.New("row")

const twice = "%w: %w"

func f(cause error, line string) []error {
	return []error{
		fmt.Errorf("%w: bad row %q: %v", errRow, line, cause),
		fmt.Errorf("%w: %w", errRow, cause), // want `fmt.Errorf wraps 2 errors`
		fmt.Errorf(twice, errRow, cause),    // want `fmt.Errorf wraps 2 errors`
		fmt.Errorf("100%% done"),
		errors.Join(errRow, cause),
	}
}
