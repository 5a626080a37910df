package plan

import (
	"fmt"
	"slices"
	"strings"
)

// ArrayDesc declares the shape and dtype of a plan argument or buffer.
type ArrayDesc struct {
	Shape []int
	DType DType
}

// Desc is a shorthand constructor for ArrayDesc.
func Desc(dtype DType, shape ...int) ArrayDesc {
	return ArrayDesc{Shape: slices.Clone(shape), DType: dtype}
}

// Rank returns the number of dimensions.
func (a ArrayDesc) Rank() int {
	return len(a.Shape)
}

// Size returns the number of elements.
func (a ArrayDesc) Size() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// Equal reports whether both descriptors have the same dtype and shape.
func (a ArrayDesc) Equal(b ArrayDesc) bool {
	return a.DType == b.DType && slices.Equal(a.Shape, b.Shape)
}

// Clone returns a copy that does not share the shape slice.
func (a ArrayDesc) Clone() ArrayDesc {
	return ArrayDesc{Shape: slices.Clone(a.Shape), DType: a.DType}
}

// Validate checks that every dimension is positive and the dtype is known.
func (a ArrayDesc) Validate() error {
	if !a.DType.Valid() {
		return fmt.Errorf("%w: dtype %v", ErrInvalidDesc, a.DType)
	}
	for i, d := range a.Shape {
		if d <= 0 {
			return fmt.Errorf("%w: dimension %d is %d", ErrInvalidDesc, i, d)
		}
	}
	return nil
}

func (a ArrayDesc) String() string {
	parts := make([]string, len(a.Shape))
	for i, d := range a.Shape {
		parts[i] = fmt.Sprint(d)
	}
	return fmt.Sprintf("%s(%s)", a.DType, strings.Join(parts, ","))
}
