package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopKernel struct{}

func (nopKernel) Name() string          { return "nop" }
func (nopKernel) Execute(int, []*Array) {}

func TestRecorderTransposeAndMatrixMul(t *testing.T) {
	r := NewRecorder("demo")
	out := r.Output("output", Desc(Float64, 3, 5))
	in := r.Input("input", Desc(Float64, 4, 3))

	tmp := r.AddAllocation(Desc(Float64, 3, 4))
	r.AddComputation(Transpose{Axes: Perm{1, 0}}, tmp, in)

	m, err := FromFloats(Float64, make([]float64, 20), 4, 5)
	require.NoError(t, err)
	mh := r.AddConstAllocation(m)
	r.AddComputation(MatrixMul{}, out, tmp, mh)

	p, err := r.Finish()
	require.NoError(t, err)
	assert.Len(t, p.Ops(), 4)
	assert.Equal(t, map[string]int{"alloc": 1, "const": 1, "transpose": 1, "matrixmul": 1}, p.Count())

	h, ok := p.Lookup("input")
	require.True(t, ok)
	assert.Equal(t, in, h)
	assert.Equal(t, []Handle{out, in}, p.Arguments())
	assert.Contains(t, p.String(), "transpose")
}

func TestRecorderRejectsReadBeforeWrite(t *testing.T) {
	r := NewRecorder("bad")
	out := r.Output("output", Desc(Float32, 2, 2))
	tmp := r.AddAllocation(Desc(Float32, 2, 2))
	r.AddComputation(Transpose{Axes: Perm{1, 0}}, out, tmp)
	_, err := r.Finish()
	assert.ErrorIs(t, err, ErrReadBeforeWrite)
}

func TestRecorderRejectsSecondWriter(t *testing.T) {
	r := NewRecorder("bad")
	out := r.Output("output", Desc(Float32, 2, 2))
	in := r.Input("input", Desc(Float32, 2, 2))
	r.AddComputation(Transpose{Axes: Perm{1, 0}}, out, in)
	r.AddComputation(Transpose{Axes: Perm{0, 1}}, out, in)
	_, err := r.Finish()
	assert.ErrorIs(t, err, ErrMultipleWriters)
}

func TestRecorderRejectsWriteToInput(t *testing.T) {
	r := NewRecorder("bad")
	r.Output("output", Desc(Uint32, 4))
	in := r.Input("input", Desc(Uint32, 4))
	r.AddKernel(nopKernel{}, []Handle{in}, nil, 4, nil)
	_, err := r.Finish()
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestRecorderRejectsUnwrittenOutput(t *testing.T) {
	r := NewRecorder("bad")
	r.Output("output", Desc(Float64, 2))
	_, err := r.Finish()
	assert.ErrorIs(t, err, ErrUnwrittenOutput)
}

func TestRecorderRejectsShapeMismatch(t *testing.T) {
	r := NewRecorder("bad")
	out := r.Output("output", Desc(Float64, 3, 3))
	in := r.Input("input", Desc(Float64, 4, 3))
	r.AddComputation(Transpose{Axes: Perm{1, 0}}, out, in)
	_, err := r.Finish()
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRecorderRejectsDuplicateNames(t *testing.T) {
	r := NewRecorder("bad")
	r.Output("x", Desc(Float64, 1))
	r.Input("x", Desc(Float64, 1))
	_, err := r.Finish()
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestRecorderRejectsInvalidDesc(t *testing.T) {
	r := NewRecorder("bad")
	r.Output("x", Desc(Float64, 0, 2))
	_, err := r.Finish()
	assert.ErrorIs(t, err, ErrInvalidDesc)
}

func TestMatrixMulOutput(t *testing.T) {
	got, err := MatrixMul{}.Output([]ArrayDesc{Desc(Complex128, 2, 7, 4), Desc(Float64, 4, 6)})
	require.NoError(t, err)
	assert.True(t, got.Equal(Desc(Complex128, 2, 7, 6)))

	_, err = MatrixMul{}.Output([]ArrayDesc{Desc(Float64, 2, 4), Desc(Float32, 4, 6)})
	assert.ErrorIs(t, err, ErrDTypeMismatch)

	_, err = MatrixMul{}.Output([]ArrayDesc{Desc(Float64, 2, 5), Desc(Float64, 4, 6)})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDTypeHelpers(t *testing.T) {
	assert.Equal(t, Float32, Complex64.Real())
	assert.Equal(t, Float64, Complex128.Real())
	assert.Equal(t, Uint32, Uint32.Real())
	assert.True(t, Int64.IsSigned())
	assert.False(t, Uint64.IsSigned())
	assert.Equal(t, 32, Complex64.Bits())
	assert.Equal(t, Complex128, ParseDType("complex128"))
	assert.Equal(t, Invalid, ParseDType("bogus"))
}
