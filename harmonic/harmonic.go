// Package harmonic evaluates harmonic-oscillator eigenfunctions and builds
// the matrices that map between mode coefficients and values on the
// spatial grid.
package harmonic

import (
	"math"
	"math/big"

	"github.com/nozzle/kernelplan/quadrature"
	"gonum.org/v1/gonum/mat"
)

// Hermite evaluates the physicists' Hermite polynomial H_n at x.
func Hermite(n int, x float64) float64 {
	if n == 0 {
		return 1
	}
	h0, h1 := 1.0, 2*x
	for k := 1; k < n; k++ {
		h0, h1 = h1, 2*x*h1-2*float64(k)*h0
	}
	return h1
}

// Norm returns 1/(pi^(1/4) sqrt(2^n n!)), the factor making the n-th
// eigenfunction square-integrate to one. The factorial is exact and only its
// binary exponent is halved, so Norm is accurate until the result itself
// underflows to zero, somewhere past n = 300.
func Norm(n int) float64 {
	f := new(big.Float).SetInt(new(big.Int).MulRange(1, int64(n)))
	mant := new(big.Float)
	exp := f.MantExp(mant) + n // 2^n n! = mant * 2^exp
	m, _ := mant.Float64()
	if exp%2 != 0 {
		m *= 2
		exp--
	}
	return math.Ldexp(1/(math.Pow(math.Pi, 0.25)*math.Sqrt(m)), -exp/2)
}

// Harmonic returns the n-th eigenfunction of the harmonic oscillator,
//
//	phi_n(x) = H_n(x) exp(-x^2/2) / (pi^(1/4) sqrt(2^n n!)),
//
// evaluated by the direct formula. Once H_n(x) overflows or the norm
// underflows the direct product is meaningless, and the value comes from
// the recurrence in Mode instead.
func Harmonic(n int) func(x float64) float64 {
	norm := Norm(n)
	return func(x float64) float64 {
		v := Hermite(n, x) * norm
		if norm == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return Mode(n, x)
		}
		return v * math.Exp(-x*x/2)
	}
}

// Modes writes phi_0(x) .. phi_{len(dst)-1}(x) into dst using the
// normalized three-term recurrence.
func Modes(dst []float64, x float64) {
	if len(dst) == 0 {
		return
	}
	dst[0] = math.Pow(math.Pi, -0.25) * math.Exp(-x*x/2)
	if len(dst) == 1 {
		return
	}
	dst[1] = math.Sqrt2 * x * dst[0]
	for m := 1; m+1 < len(dst); m++ {
		fm := float64(m)
		dst[m+1] = math.Sqrt(2/(fm+1))*x*dst[m] - math.Sqrt(fm/(fm+1))*dst[m-1]
	}
}

// Mode evaluates phi_n(x).
func Mode(n int, x float64) float64 {
	buf := make([]float64, n+1)
	Modes(buf, x)
	return buf[n]
}

func checkGrid(modes, order, extra int) error {
	if extra < 0 {
		return &InsufficientGridError{
			Axis:     -1,
			Modes:    modes,
			Order:    order,
			Points:   quadrature.SpatialPointCount(modes, order, extra),
			Required: quadrature.SpatialPointCount(modes, order, 0),
		}
	}
	return nil
}

// TransformMatrix returns the modes x points matrix of mode functions
// sampled on the spatial grid: entry (m, x) is phi_m(grid[x]). It maps
// mode coefficients to grid values (the inverse transform).
func TransformMatrix(modes, order, extra int) (*mat.Dense, error) {
	if err := checkGrid(modes, order, extra); err != nil {
		return nil, err
	}
	grid, err := quadrature.SpatialGrid(modes, order, extra)
	if err != nil {
		return nil, err
	}

	res := mat.NewDense(modes, len(grid), nil)
	col := make([]float64, modes)
	for x, g := range grid {
		Modes(col, g)
		res.SetCol(x, col)
	}
	return res, nil
}

// ForwardMatrix returns the points x modes projection operator: the
// transpose of TransformMatrix with row x scaled by the quadrature weight
// of grid point x. It maps grid values to mode coefficients.
func ForwardMatrix(modes, order, extra int) (*mat.Dense, error) {
	p, err := TransformMatrix(modes, order, extra)
	if err != nil {
		return nil, err
	}
	weights, err := quadrature.SpatialWeights(modes, order, extra)
	if err != nil {
		return nil, err
	}

	points := len(weights)
	res := mat.NewDense(points, modes, nil)
	for x := 0; x < points; x++ {
		for m := 0; m < modes; m++ {
			res.Set(x, m, p.At(m, x)*weights[x])
		}
	}
	return res, nil
}
