package harmonic

import (
	"errors"
	"fmt"
)

// ErrInsufficientGrid matches every *InsufficientGridError.
var ErrInsufficientGrid = errors.New("harmonic: insufficient spatial grid")

// InsufficientGridError reports a grid with fewer points than needed to
// recover Modes coefficients from the Order-th power of a function.
type InsufficientGridError struct {
	Axis     int // transformed axis, -1 when not tied to an array
	Modes    int
	Order    int
	Points   int
	Required int
}

func (e *InsufficientGridError) Error() string {
	where := ""
	if e.Axis >= 0 {
		where = fmt.Sprintf(" in axis %d", e.Axis)
	}
	return fmt.Sprintf("harmonic: not enough spatial points%s: %d modes at order %d need %d points, have %d",
		where, e.Modes, e.Order, e.Required, e.Points)
}

// Is makes errors.Is(err, ErrInsufficientGrid) hold.
func (e *InsufficientGridError) Is(target error) bool {
	return target == ErrInsufficientGrid
}
