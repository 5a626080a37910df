package cbrng

import imath "github.com/nozzle/kernelplan/internal/math"

// Philox multipliers and Weyl key increments.
const (
	philoxM2x32  = 0xD256D193
	philoxM4x32a = 0xD2511F53
	philoxM4x32b = 0xCD9E8D57
	philoxW32a   = 0x9E3779B9
	philoxW32b   = 0xBB67AE85

	philoxM2x64  = 0xD2B74407B1CE6E93
	philoxM4x64a = 0xD2E7470EE14C6C93
	philoxM4x64b = 0xCA5A826395121157
	philoxW64a   = 0x9E3779B97F4A7C15
	philoxW64b   = 0xBB67AE8584CAA73B
)

// Philox2x32 applies rounds of the Philox-2x32 bijection to ctr.
func Philox2x32(ctr [2]uint32, key [1]uint32, rounds int) [2]uint32 {
	k := key[0]
	for r := 0; r < rounds; r++ {
		if r > 0 {
			k += philoxW32a
		}
		hi, lo := imath.MulHiLo32(philoxM2x32, ctr[0])
		ctr = [2]uint32{hi ^ k ^ ctr[1], lo}
	}
	return ctr
}

// Philox4x32 applies rounds of the Philox-4x32 bijection to ctr.
func Philox4x32(ctr [4]uint32, key [2]uint32, rounds int) [4]uint32 {
	for r := 0; r < rounds; r++ {
		if r > 0 {
			key[0] += philoxW32a
			key[1] += philoxW32b
		}
		hi0, lo0 := imath.MulHiLo32(philoxM4x32a, ctr[0])
		hi1, lo1 := imath.MulHiLo32(philoxM4x32b, ctr[2])
		ctr = [4]uint32{hi1 ^ ctr[1] ^ key[0], lo1, hi0 ^ ctr[3] ^ key[1], lo0}
	}
	return ctr
}

// Philox2x64 applies rounds of the Philox-2x64 bijection to ctr.
func Philox2x64(ctr [2]uint64, key [1]uint64, rounds int) [2]uint64 {
	k := key[0]
	for r := 0; r < rounds; r++ {
		if r > 0 {
			k += philoxW64a
		}
		hi, lo := imath.MulHiLo64(philoxM2x64, ctr[0])
		ctr = [2]uint64{hi ^ k ^ ctr[1], lo}
	}
	return ctr
}

// Philox4x64 applies rounds of the Philox-4x64 bijection to ctr.
func Philox4x64(ctr [4]uint64, key [2]uint64, rounds int) [4]uint64 {
	for r := 0; r < rounds; r++ {
		if r > 0 {
			key[0] += philoxW64a
			key[1] += philoxW64b
		}
		hi0, lo0 := imath.MulHiLo64(philoxM4x64a, ctr[0])
		hi1, lo1 := imath.MulHiLo64(philoxM4x64b, ctr[2])
		ctr = [4]uint64{hi1 ^ ctr[1] ^ key[0], lo1, hi0 ^ ctr[3] ^ key[1], lo0}
	}
	return ctr
}
