package quadrature

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for a non-positive point or mode count
	// or a negative order.
	ErrInvalidArgument = errors.New("quadrature: invalid argument")

	// ErrConvergence matches every *ConvergenceError.
	ErrConvergence = errors.New("quadrature: root did not converge")
)

// ConvergenceError reports a Hermite root that Newton's method could not
// pin down within MaxIterations, or a rule whose weights do not add up to
// sqrt(pi). It is not retried: it marks a numerically pathological point
// count.
type ConvergenceError struct {
	N     int     // number of quadrature points requested
	Root  int     // index of the root being refined, -1 for the rule as a whole
	Last  float64 // last iterate
	Delta float64 // size of the last Newton step, or the weight sum error
}

func (e *ConvergenceError) Error() string {
	if e.Root < 0 {
		return fmt.Sprintf("quadrature: %d-point rule is off by %g in total weight", e.N, e.Delta)
	}
	return fmt.Sprintf("quadrature: root %d of %d did not converge in %d iterations (z=%g, dz=%g)",
		e.Root, e.N, MaxIterations, e.Last, e.Delta)
}

// Is makes errors.Is(err, ErrConvergence) hold.
func (e *ConvergenceError) Is(target error) bool {
	return target == ErrConvergence
}
