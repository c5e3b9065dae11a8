package regression

import (
	"errors"
	"fmt"
)

// ErrUnknownMethod is returned when a regression method name is not one of
// the supported modes.
var ErrUnknownMethod = errors.New("regression: unknown method")

// DegenerateFitError reports a system with fewer usable points than free
// coefficients. Batch callers recover from it per frame; direct callers
// should treat it as fatal.
type DegenerateFitError struct {
	Needed int
	Got    int
	cause  error
}

func (e *DegenerateFitError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("regression: degenerate system (%d points for %d coefficients): %v", e.Got, e.Needed, e.cause)
	}
	return fmt.Sprintf("regression: degenerate system (%d points for %d coefficients)", e.Got, e.Needed)
}

func (e *DegenerateFitError) Unwrap() error { return e.cause }

// IsDegenerate reports whether err is a degenerate-system failure.
func IsDegenerate(err error) bool {
	var d *DegenerateFitError
	return errors.As(err, &d)
}
