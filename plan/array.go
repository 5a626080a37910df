package plan

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Array is host storage bound to a plan buffer. Exactly one of the backing
// slices is used, chosen by the dtype: Float for real floats, Complex for
// complex values and Uint for integers (signed values in two's complement).
// Single-precision dtypes keep float64 storage rounded to float32.
type Array struct {
	Desc    ArrayDesc
	Float   []float64
	Complex []complex128
	Uint    []uint64
}

// NewArray allocates a zeroed array for desc.
func NewArray(desc ArrayDesc) *Array {
	a := &Array{Desc: desc.Clone()}
	n := desc.Size()
	switch {
	case desc.DType.IsFloat():
		a.Float = make([]float64, n)
	case desc.DType.IsComplex():
		a.Complex = make([]complex128, n)
	case desc.DType.IsInteger():
		a.Uint = make([]uint64, n)
	}
	return a
}

// FromFloats wraps data as a real array of the given shape.
func FromFloats(dtype DType, data []float64, shape ...int) (*Array, error) {
	desc := Desc(dtype, shape...)
	if !dtype.IsFloat() {
		return nil, fmt.Errorf("%w: %v is not a real float type", ErrDTypeMismatch, dtype)
	}
	if len(data) != desc.Size() {
		return nil, fmt.Errorf("%w: %d values for %v", ErrShapeMismatch, len(data), desc)
	}
	return &Array{Desc: desc, Float: data}, nil
}

// FromComplex wraps data as a complex array of the given shape.
func FromComplex(dtype DType, data []complex128, shape ...int) (*Array, error) {
	desc := Desc(dtype, shape...)
	if !dtype.IsComplex() {
		return nil, fmt.Errorf("%w: %v is not a complex type", ErrDTypeMismatch, dtype)
	}
	if len(data) != desc.Size() {
		return nil, fmt.Errorf("%w: %d values for %v", ErrShapeMismatch, len(data), desc)
	}
	return &Array{Desc: desc, Complex: data}, nil
}

// FromDense copies a gonum matrix into a 2D real array, rounding to
// single precision for Float32.
func FromDense(dtype DType, m mat.Matrix) (*Array, error) {
	if !dtype.IsFloat() {
		return nil, fmt.Errorf("%w: %v is not a real float type", ErrDTypeMismatch, dtype)
	}
	r, c := m.Dims()
	a := NewArray(Desc(dtype, r, c))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if dtype == Float32 {
				v = float64(float32(v))
			}
			a.Float[i*c+j] = v
		}
	}
	return a, nil
}

// Int returns element i of an integer array as a signed value.
func (a *Array) Int(i int) int64 {
	if a.Desc.DType == Int32 {
		return int64(int32(uint32(a.Uint[i])))
	}
	return int64(a.Uint[i])
}

// Len returns the number of elements.
func (a *Array) Len() int {
	switch {
	case a.Float != nil:
		return len(a.Float)
	case a.Complex != nil:
		return len(a.Complex)
	}
	return len(a.Uint)
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	b := &Array{Desc: a.Desc.Clone()}
	if a.Float != nil {
		b.Float = append([]float64(nil), a.Float...)
	}
	if a.Complex != nil {
		b.Complex = append([]complex128(nil), a.Complex...)
	}
	if a.Uint != nil {
		b.Uint = append([]uint64(nil), a.Uint...)
	}
	return b
}

// CheckDesc verifies that a matches desc.
func (a *Array) CheckDesc(desc ArrayDesc) error {
	if a.Desc.DType != desc.DType {
		return fmt.Errorf("%w: have %v, want %v", ErrDTypeMismatch, a.Desc, desc)
	}
	if !a.Desc.Equal(desc) || a.Len() != desc.Size() {
		return fmt.Errorf("%w: have %v, want %v", ErrShapeMismatch, a.Desc, desc)
	}
	return nil
}
