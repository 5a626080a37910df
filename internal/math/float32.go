package math

import "math"

// Round32 rounds x to the nearest float32 value.
func Round32(x float64) float64 {
	return float64(float32(x))
}

// RoundComplex64 rounds both parts of z to float32 precision.
func RoundComplex64(z complex128) complex128 {
	return complex(Round32(real(z)), Round32(imag(z)))
}

// Below returns the largest value of the given precision strictly below max.
func Below(max float64, single bool) float64 {
	if single {
		return float64(math.Nextafter32(float32(max), float32(math.Inf(-1))))
	}
	return math.Nextafter(max, math.Inf(-1))
}

// AtLeast returns the smallest value of the given precision not below min.
func AtLeast(min float64, single bool) float64 {
	if !single {
		return min
	}
	f := float32(min)
	if float64(f) < min {
		f = math.Nextafter32(f, float32(math.Inf(1)))
	}
	return float64(f)
}
