package quadrature

import (
	"fmt"
	"math"
)

// SpatialPointCount returns the number of coordinate-space points that
// allows the order-th power of a function with the given number of
// harmonic modes to be transformed back exactly, plus extra points.
func SpatialPointCount(modes, order, extra int) int {
	return (modes-1)*(order+1)/2 + 1 + extra
}

// GridAndWeights returns the spatial grid and the matching quadrature
// weights. The grid is the Gauss-Hermite nodes scaled by sqrt(2/(order+1));
// the weights absorb the exp(x^2) factor so that sum(w*f(x)) approximates
// the plain integral of f.
func GridAndWeights(modes, order, extra int) (grid, weights []float64, err error) {
	if modes < 1 {
		return nil, nil, fmt.Errorf("%w: %d modes", ErrInvalidArgument, modes)
	}
	if order < 0 {
		return nil, nil, fmt.Errorf("%w: order %d", ErrInvalidArgument, order)
	}

	points := SpatialPointCount(modes, order, extra)
	roots, w, err := GaussHermite(points)
	if err != nil {
		return nil, nil, err
	}

	scale := math.Sqrt(2.0 / float64(order+1))
	grid = make([]float64, points)
	weights = make([]float64, points)
	for i, r := range roots {
		grid[i] = r * scale
		weights[i] = w[i] * math.Exp(r*r) * scale
	}
	return grid, weights, nil
}

// SpatialGrid returns the grid points for the given mode count and order.
func SpatialGrid(modes, order, extra int) ([]float64, error) {
	grid, _, err := GridAndWeights(modes, order, extra)
	return grid, err
}

// SpatialWeights returns the quadrature weights for SpatialGrid.
func SpatialWeights(modes, order, extra int) ([]float64, error) {
	_, weights, err := GridAndWeights(modes, order, extra)
	return weights, err
}
