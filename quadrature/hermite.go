// Package quadrature computes Gauss-Hermite nodes and weights and the
// spatial grids the harmonic transforms are sampled on.
package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// Epsilon is the Newton step size at which a root counts as converged.
	Epsilon = 1.0e-16

	// MaxIterations bounds the Newton refinement of a single root.
	MaxIterations = 20
)

// piM4 is pi^(-1/4), the value of the zeroth orthonormal Hermite function
// without its Gaussian factor.
var piM4 = math.Pow(math.Pi, -0.25)

// GaussHermite returns the n nodes (ascending) and weights of Gauss-Hermite
// quadrature with weight function exp(-x^2), so sum(weights) = sqrt(pi).
//
// Roots are found from the outermost pair inward. Each starts from an
// asymptotic guess built from the roots already found and is polished by
// Newton's method on the orthonormal Hermite recurrence. Only the first
// ceil(n/2) roots are computed; the rest follow from symmetry.
//
// Every polished root must be the next one down: a Sturm count on the
// Jacobi matrix confirms exactly i roots lie above root i. For large n the
// asymptotic guess can fall into the basin of a different root, in which
// case Newton restarts from the matching eigenvalue of the Jacobi matrix.
// From 731 points on the recurrence overflows and a *ConvergenceError
// is returned.
func GaussHermite(n int) (roots, weights []float64, err error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("%w: %d points", ErrInvalidArgument, n)
	}

	x := make([]float64, n)
	w := make([]float64, n)
	m := (n + 1) / 2
	fn := float64(n)

	var (
		z     float64
		eigen []float64
	)
	for i := 0; i < m; i++ {
		switch i {
		case 0:
			z = math.Sqrt(2*fn+1) - 1.85575*math.Pow(2*fn+1, -0.16667)
		case 1:
			z -= 1.14 * math.Pow(fn, 0.426) / z
		case 2:
			z = 1.86*z + 0.86*x[0]
		case 3:
			z = 1.91*z + 0.91*x[1]
		default:
			z = 2.0*z + x[i-2]
		}

		middle := n%2 == 1 && i == m-1
		upper := math.Inf(1)
		if i > 0 {
			upper = x[n-i]
		}

		root, pp, dz, ok := newton(n, z)
		overflowed := math.IsNaN(root) || math.IsInf(root, 0)
		if !overflowed && !(ok && isNextRoot(n, i, root, upper, middle)) {
			if eigen == nil {
				eigen = jacobiEigenvalues(n)
			}
			ok = false
			if eigen != nil {
				root, pp, dz, ok = newton(n, eigen[n-1-i])
				ok = ok && isNextRoot(n, i, root, upper, middle)
			}
		}
		if !ok {
			return nil, nil, &ConvergenceError{N: n, Root: i, Last: root, Delta: dz}
		}

		z = root
		if middle {
			// The middle node of an odd rule is exactly +0.
			z = 0
			_, p2 := hermiteRecurrence(n, z)
			pp = math.Sqrt(2*fn) * p2
		}
		x[i] = -z
		x[n-1-i] = z
		w[i] = 2.0 / (pp * pp)
		w[n-1-i] = w[i]
	}

	if d := math.Abs(floats.Sum(w) - math.Sqrt(math.Pi)); !(d <= massTolerance) {
		return nil, nil, &ConvergenceError{N: n, Root: -1, Delta: d}
	}
	return x, w, nil
}

// massTolerance bounds |sum(weights) - sqrt(pi)| for an accepted rule.
const massTolerance = 1e-12

// newton polishes z as a root of the degree-n orthonormal Hermite
// polynomial. It reports the root, the derivative there, and the last step.
// A non-finite recurrence never converges.
func newton(n int, z float64) (root, pp, dz float64, ok bool) {
	scale := math.Sqrt(2 * float64(n))
	dz = math.NaN()
	for its := 0; its < MaxIterations; its++ {
		p1, p2 := hermiteRecurrence(n, z)
		pp = scale * p2
		z1 := z
		z = z1 - p1/pp
		dz = math.Abs(z - z1)
		if dz <= Epsilon || dz <= resolution(z) {
			return z, pp, dz, true
		}
	}
	return z, pp, dz, false
}

// isNextRoot reports whether z is the (i+1)-th largest root of the rule:
// strictly between zero and the previous root, with exactly i roots above
// it. The middle root of an odd rule only has to be near zero.
func isNextRoot(n, i int, z, upper float64, middle bool) bool {
	if middle {
		return math.Abs(z) <= 1e-8 && n-rootsBelow(n, separation) == i
	}
	if !(z > 0 && z < upper) {
		return false
	}
	return n-rootsBelow(n, z+separation) == i
}

// separation is far smaller than the gap between adjacent Hermite roots
// for any point count the recurrence can handle.
const separation = 1e-6

// rootsBelow counts the roots of the degree-n Hermite polynomial below x by
// Sturm's sequence on the Jacobi matrix, whose off-diagonal entries are
// sqrt(k/2).
func rootsBelow(n int, x float64) int {
	count := 0
	d := -x
	if d < 0 {
		count++
	}
	for k := 1; k < n; k++ {
		if d == 0 {
			d = math.SmallestNonzeroFloat64
		}
		d = -x - float64(k)/2/d
		if d < 0 {
			count++
		}
	}
	return count
}

// jacobiEigenvalues returns the ascending eigenvalues of the symmetric
// tridiagonal Jacobi matrix of the Hermite weight, which are the roots, or
// nil if the decomposition fails.
func jacobiEigenvalues(n int) []float64 {
	a := mat.NewSymDense(n, nil)
	for k := 1; k < n; k++ {
		a.SetSym(k-1, k, math.Sqrt(float64(k)/2))
	}
	var es mat.EigenSym
	if !es.Factorize(a, false) {
		return nil
	}
	return es.Values(nil)
}

// resolution is the smallest Newton step that still carries information at
// the magnitude of z; below it the iteration only dithers in the last bits.
func resolution(z float64) float64 {
	a := math.Abs(z)
	return 16 * (math.Nextafter(a, math.Inf(1)) - a)
}

// hermiteRecurrence evaluates the orthonormal Hermite polynomials of
// degree n and n-1 at z.
func hermiteRecurrence(n int, z float64) (pn, pn1 float64) {
	p1 := piM4
	p2 := 0.0
	for j := 0; j < n; j++ {
		p3 := p2
		p2 = p1
		fj := float64(j)
		p1 = z*math.Sqrt(2.0/(fj+1))*p2 - math.Sqrt(fj/(fj+1))*p3
	}
	return p1, p2
}
