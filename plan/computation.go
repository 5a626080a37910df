package plan

import (
	"fmt"
	"slices"
)

// Kind names a nested computation available to planners.
type Kind uint8

const (
	KindTranspose Kind = iota + 1
	KindMatrixMul
)

func (k Kind) String() string {
	switch k {
	case KindTranspose:
		return "transpose"
	case KindMatrixMul:
		return "matrixmul"
	}
	return "unknown"
}

// Computation is a nested sub-computation recorded into a plan. The
// primitives themselves are provided by the executing device.
type Computation interface {
	Kind() Kind
	// Output infers the output descriptor from the inputs, or reports why
	// the inputs are unsuitable.
	Output(in []ArrayDesc) (ArrayDesc, error)
}

// Transpose permutes the axes of a single input: the output shape is
// Permute(Axes, input.Shape).
type Transpose struct {
	Axes Perm
}

// Kind implements Computation.
func (Transpose) Kind() Kind { return KindTranspose }

// Output implements Computation.
func (t Transpose) Output(in []ArrayDesc) (ArrayDesc, error) {
	if len(in) != 1 {
		return ArrayDesc{}, fmt.Errorf("%w: transpose takes 1 input, got %d", ErrShapeMismatch, len(in))
	}
	if len(t.Axes) != in[0].Rank() {
		return ArrayDesc{}, fmt.Errorf("%w: %d axes for %v", ErrShapeMismatch, len(t.Axes), in[0])
	}
	if err := t.Axes.Validate(); err != nil {
		return ArrayDesc{}, err
	}
	return ArrayDesc{Shape: Permute(t.Axes, in[0].Shape), DType: in[0].DType}, nil
}

// MatrixMul multiplies a batch of row vectors by a matrix: an input of
// shape (..., k) times a (k, n) matrix gives (..., n). The matrix may be
// the real counterpart of the input dtype.
type MatrixMul struct{}

// Kind implements Computation.
func (MatrixMul) Kind() Kind { return KindMatrixMul }

// Output implements Computation.
func (MatrixMul) Output(in []ArrayDesc) (ArrayDesc, error) {
	if len(in) != 2 {
		return ArrayDesc{}, fmt.Errorf("%w: matrixmul takes 2 inputs, got %d", ErrShapeMismatch, len(in))
	}
	a, b := in[0], in[1]
	if a.Rank() < 1 || b.Rank() != 2 {
		return ArrayDesc{}, fmt.Errorf("%w: %v x %v", ErrShapeMismatch, a, b)
	}
	if a.Shape[a.Rank()-1] != b.Shape[0] {
		return ArrayDesc{}, fmt.Errorf("%w: inner dimensions of %v x %v", ErrShapeMismatch, a, b)
	}
	if b.DType != a.DType && b.DType != a.DType.Real() {
		return ArrayDesc{}, fmt.Errorf("%w: %v x %v", ErrDTypeMismatch, a.DType, b.DType)
	}
	shape := slices.Clone(a.Shape)
	shape[len(shape)-1] = b.Shape[1]
	return ArrayDesc{Shape: shape, DType: a.DType}, nil
}
