// Package math provides the word arithmetic shared by the counter-based
// generators and the float32 rounding used to emulate single precision.
package math

import "math/bits"

// MulHiLo32 returns the high and low halves of the 64-bit product a*b.
func MulHiLo32(a, b uint32) (hi, lo uint32) {
	prod := uint64(a) * uint64(b)
	return uint32(prod >> 32), uint32(prod)
}

// MulHiLo64 returns the high and low halves of the 128-bit product a*b.
func MulHiLo64(a, b uint64) (hi, lo uint64) {
	return bits.Mul64(a, b)
}

// RotL32 rotates x left by n bits.
func RotL32(x uint32, n int) uint32 {
	return bits.RotateLeft32(x, n)
}

// RotL64 rotates x left by n bits.
func RotL64(x uint64, n int) uint64 {
	return bits.RotateLeft64(x, n)
}

// Mask returns a mask of the low `bitness` bits.
func Mask(bitness int) uint64 {
	if bitness >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bitness)) - 1
}

// Product returns the product of dims, 1 for an empty shape.
func Product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}
