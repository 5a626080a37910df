package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	imath "github.com/nozzle/kernelplan/internal/math"
	"github.com/nozzle/kernelplan/plan"
)

func compute(op *plan.ComputationOp, bound []*plan.Array) error {
	in := make([]*plan.Array, len(op.Inputs))
	for i, h := range op.Inputs {
		in[i] = bound[h]
	}
	out := bound[op.Output]
	switch c := op.Computation.(type) {
	case plan.Transpose:
		Transpose(out, in[0], c.Axes)
		return nil
	case plan.MatrixMul:
		MatrixMul(out, in[0], in[1])
		return nil
	}
	return fmt.Errorf("unsupported computation %v", op.Computation.Kind())
}

// Transpose writes src with its axes permuted into dst, so that dimension
// i of dst is dimension axes[i] of src.
func Transpose(dst, src *plan.Array, axes plan.Perm) {
	shape := dst.Desc.Shape
	srcStrides := strides(src.Desc.Shape)
	step := make([]int, len(axes))
	for i, a := range axes {
		step[i] = srcStrides[a]
	}
	switch {
	case src.Float != nil:
		permute(dst.Float, src.Float, shape, step)
	case src.Complex != nil:
		permute(dst.Complex, src.Complex, shape, step)
	default:
		permute(dst.Uint, src.Uint, shape, step)
	}
}

func strides(shape []int) []int {
	s := make([]int, len(shape))
	n := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = n
		n *= shape[i]
	}
	return s
}

// permute walks dst in row-major order while an odometer tracks the
// matching source offset.
func permute[T any](dst, src []T, shape, step []int) {
	idx := make([]int, len(shape))
	off := 0
	for i := range dst {
		dst[i] = src[off]
		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			off += step[d]
			if idx[d] < shape[d] {
				break
			}
			off -= step[d] * shape[d]
			idx[d] = 0
		}
	}
}

// MatrixMul computes dst = a x m, treating a as a stack of row vectors
// over its last axis. m may be the real counterpart of a's dtype.
func MatrixMul(dst, a, m *plan.Array) {
	k, n := m.Desc.Shape[0], m.Desc.Shape[1]
	rows := a.Desc.Size() / k
	single := dst.Desc.DType.Single()

	if a.Complex == nil {
		c := mat.NewDense(rows, n, dst.Float)
		c.Mul(mat.NewDense(rows, k, a.Float), dense(m, realPart))
		if single {
			for i, v := range dst.Float {
				dst.Float[i] = imath.Round32(v)
			}
		}
		return
	}

	ar, ai := split(a.Complex, rows, k)
	var re, im, tmp mat.Dense
	mr := dense(m, realPart)
	re.Mul(ar, mr)
	im.Mul(ai, mr)
	if m.Complex != nil {
		mi := dense(m, imagPart)
		tmp.Mul(ai, mi)
		re.Sub(&re, &tmp)
		tmp.Reset()
		tmp.Mul(ar, mi)
		im.Add(&im, &tmp)
	}
	for r := 0; r < rows; r++ {
		for j := 0; j < n; j++ {
			z := complex(re.At(r, j), im.At(r, j))
			if single {
				z = imath.RoundComplex64(z)
			}
			dst.Complex[r*n+j] = z
		}
	}
}

func dense(m *plan.Array, part func(complex128) float64) *mat.Dense {
	r, c := m.Desc.Shape[0], m.Desc.Shape[1]
	if m.Complex == nil {
		return mat.NewDense(r, c, m.Float)
	}
	data := make([]float64, len(m.Complex))
	for i, z := range m.Complex {
		data[i] = part(z)
	}
	return mat.NewDense(r, c, data)
}

func realPart(z complex128) float64 { return real(z) }
func imagPart(z complex128) float64 { return imag(z) }

func split(z []complex128, rows, cols int) (re, im *mat.Dense) {
	rd := make([]float64, len(z))
	id := make([]float64, len(z))
	for i, v := range z {
		rd[i], id[i] = real(v), imag(v)
	}
	return mat.NewDense(rows, cols, rd), mat.NewDense(rows, cols, id)
}
