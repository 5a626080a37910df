// Package dht plans discrete harmonic transforms: the change of basis
// between coordinate-space samples on a Gauss-Hermite grid and the
// coefficients of harmonic oscillator modes, applied along selected axes
// of an array with one transpose and one matrix product per axis.
package dht

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/nozzle/kernelplan/harmonic"
	"github.com/nozzle/kernelplan/plan"
	"github.com/nozzle/kernelplan/quadrature"
)

var (
	// ErrInvalidAxes is returned for out-of-range, duplicate or empty
	// transform axes.
	ErrInvalidAxes = errors.New("dht: invalid axes")

	// ErrInvalidOrder is returned for a negative order.
	ErrInvalidOrder = errors.New("dht: invalid order")
)

// Options selects the direction, order and axes of a transform.
type Options struct {
	// Inverse maps mode coefficients to grid values; otherwise grid values
	// are projected onto modes.
	// Default: false
	Inverse bool

	// Order is the highest power of the transformed function whose
	// coefficients must come out exact; 0 means 1.
	// Default: 1
	Order int

	// Axes lists the transformed axes; nil means all of them.
	// Default: nil
	Axes []int
}

func (o Options) order() int {
	if o.Order == 0 {
		return 1
	}
	return o.Order
}

// Plan records a transform of input into output. Along every transformed
// axis one side has the mode count and the other the grid size: input is
// the grid side for a forward transform and output for an inverse one. All
// other axes must match.
func Plan(output, input plan.ArrayDesc, opts Options) (*plan.Plan, error) {
	if err := output.Validate(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if output.DType != input.DType {
		return nil, fmt.Errorf("%w: output %v, input %v", plan.ErrDTypeMismatch, output.DType, input.DType)
	}
	if !input.DType.IsFloat() && !input.DType.IsComplex() {
		return nil, fmt.Errorf("%w: %v is not a floating-point type", plan.ErrDTypeMismatch, input.DType)
	}
	if output.Rank() != input.Rank() {
		return nil, fmt.Errorf("%w: output %v and input %v differ in rank", plan.ErrShapeMismatch, output, input)
	}
	if opts.Order < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, opts.Order)
	}
	n := input.Rank()
	axes, err := normalizeAxes(opts.Axes, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if !slices.Contains(axes, i) && output.Shape[i] != input.Shape[i] {
			return nil, fmt.Errorf("%w: untransformed axis %d has size %d in output and %d in input",
				plan.ErrShapeMismatch, i, output.Shape[i], input.Shape[i])
		}
	}

	direction := "forward"
	if opts.Inverse {
		direction = "inverse"
	}
	r := plan.NewRecorder(fmt.Sprintf("dht_%s_order%d", direction, opts.order()))
	out := r.Output("output", output)
	cur := r.Input("input", input)

	curAxes := plan.Identity(n)
	curShape := slices.Clone(input.Shape)
	for i, axis := range axes {
		if pos := curAxes.IndexOf(axis); pos != n-1 {
			tr := plan.MoveToEnd(n, pos)
			curShape = plan.Permute(tr, curShape)
			tmp := r.AddAllocation(plan.Desc(input.DType, curShape...))
			r.AddComputation(plan.Transpose{Axes: tr}, tmp, cur)
			cur, curAxes = tmp, curAxes.MoveToEnd(pos)
		}

		m, err := transformMatrix(axis, output.Shape[axis], input.Shape[axis], opts)
		if err != nil {
			return nil, err
		}
		data, err := plan.FromDense(input.DType.Real(), m)
		if err != nil {
			return nil, err
		}
		mh := r.AddConstAllocation(data)

		curShape[n-1] = output.Shape[axis]
		var dst plan.Handle
		if i == len(axes)-1 && curAxes.IsIdentity() {
			dst = out
		} else {
			dst = r.AddAllocation(plan.Desc(input.DType, curShape...))
		}
		r.AddComputation(plan.MatrixMul{}, dst, cur, mh)
		cur = dst
	}

	if cur != out {
		r.AddComputation(plan.Transpose{Axes: curAxes.Inverse()}, out, cur)
	}
	return r.Finish()
}

// transformMatrix builds the matrix for one axis, multiplied from the right
// onto rows of length inSize.
func transformMatrix(axis, outSize, inSize int, opts Options) (*mat.Dense, error) {
	modes, points := outSize, inSize
	if opts.Inverse {
		modes, points = inSize, outSize
	}
	order := opts.order()
	required := quadrature.SpatialPointCount(modes, order, 0)
	if points < required {
		return nil, &harmonic.InsufficientGridError{
			Axis:     axis,
			Modes:    modes,
			Order:    order,
			Points:   points,
			Required: required,
		}
	}
	if opts.Inverse {
		return harmonic.TransformMatrix(modes, order, points-required)
	}
	return harmonic.ForwardMatrix(modes, order, points-required)
}

// normalizeAxes returns the transform axes sorted ascending.
func normalizeAxes(axes []int, rank int) ([]int, error) {
	if axes == nil {
		return plan.Identity(rank), nil
	}
	if len(axes) == 0 {
		return nil, fmt.Errorf("%w: no axes given", ErrInvalidAxes)
	}
	sorted := slices.Clone(axes)
	slices.Sort(sorted)
	for i, a := range sorted {
		if a < 0 || a >= rank {
			return nil, fmt.Errorf("%w: axis %d out of range for rank %d", ErrInvalidAxes, a, rank)
		}
		if i > 0 && sorted[i-1] == a {
			return nil, fmt.Errorf("%w: axis %d repeated", ErrInvalidAxes, a)
		}
	}
	return sorted, nil
}
