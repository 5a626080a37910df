package cbrng

import imath "github.com/nozzle/kernelplan/internal/math"

// Key schedule parity constants.
const (
	threefryParity32 = 0x1BD11BDA
	threefryParity64 = 0x1BD11BDAA9FC1A22
)

// Rotation distances, indexed by round modulo 8.
var (
	threefryR2x32 = [8]int{13, 15, 26, 6, 17, 29, 16, 24}
	threefryR2x64 = [8]int{16, 42, 12, 31, 16, 32, 24, 21}
	threefryR4x32 = [8][2]int{{10, 26}, {11, 21}, {13, 27}, {23, 5}, {6, 20}, {17, 11}, {25, 10}, {18, 20}}
	threefryR4x64 = [8][2]int{{14, 16}, {52, 57}, {23, 40}, {5, 37}, {25, 33}, {46, 12}, {58, 22}, {32, 32}}
)

// Threefry2x32 applies rounds of the Threefry-2x32 bijection to ctr.
func Threefry2x32(ctr [2]uint32, key [2]uint32, rounds int) [2]uint32 {
	ks := [3]uint32{key[0], key[1], threefryParity32 ^ key[0] ^ key[1]}
	x0, x1 := ctr[0]+ks[0], ctr[1]+ks[1]
	for r := 0; r < rounds; r++ {
		x0 += x1
		x1 = imath.RotL32(x1, threefryR2x32[r%8])
		x1 ^= x0
		if (r+1)%4 == 0 {
			i := (r + 1) / 4
			x0 += ks[i%3]
			x1 += ks[(i+1)%3] + uint32(i)
		}
	}
	return [2]uint32{x0, x1}
}

// Threefry2x64 applies rounds of the Threefry-2x64 bijection to ctr.
func Threefry2x64(ctr [2]uint64, key [2]uint64, rounds int) [2]uint64 {
	ks := [3]uint64{key[0], key[1], threefryParity64 ^ key[0] ^ key[1]}
	x0, x1 := ctr[0]+ks[0], ctr[1]+ks[1]
	for r := 0; r < rounds; r++ {
		x0 += x1
		x1 = imath.RotL64(x1, threefryR2x64[r%8])
		x1 ^= x0
		if (r+1)%4 == 0 {
			i := (r + 1) / 4
			x0 += ks[i%3]
			x1 += ks[(i+1)%3] + uint64(i)
		}
	}
	return [2]uint64{x0, x1}
}

// Threefry4x32 applies rounds of the Threefry-4x32 bijection to ctr.
func Threefry4x32(ctr [4]uint32, key [4]uint32, rounds int) [4]uint32 {
	var ks [5]uint32
	ks[4] = threefryParity32
	for j := range key {
		ks[j] = key[j]
		ks[4] ^= key[j]
	}
	var x [4]uint32
	for j := range x {
		x[j] = ctr[j] + ks[j]
	}
	for r := 0; r < rounds; r++ {
		rot := threefryR4x32[r%8]
		if r%2 == 0 {
			x[0] += x[1]
			x[1] = imath.RotL32(x[1], rot[0]) ^ x[0]
			x[2] += x[3]
			x[3] = imath.RotL32(x[3], rot[1]) ^ x[2]
		} else {
			x[0] += x[3]
			x[3] = imath.RotL32(x[3], rot[0]) ^ x[0]
			x[2] += x[1]
			x[1] = imath.RotL32(x[1], rot[1]) ^ x[2]
		}
		if (r+1)%4 == 0 {
			i := (r + 1) / 4
			for j := range x {
				x[j] += ks[(i+j)%5]
			}
			x[3] += uint32(i)
		}
	}
	return x
}

// Threefry4x64 applies rounds of the Threefry-4x64 bijection to ctr.
func Threefry4x64(ctr [4]uint64, key [4]uint64, rounds int) [4]uint64 {
	var ks [5]uint64
	ks[4] = threefryParity64
	for j := range key {
		ks[j] = key[j]
		ks[4] ^= key[j]
	}
	var x [4]uint64
	for j := range x {
		x[j] = ctr[j] + ks[j]
	}
	for r := 0; r < rounds; r++ {
		rot := threefryR4x64[r%8]
		if r%2 == 0 {
			x[0] += x[1]
			x[1] = imath.RotL64(x[1], rot[0]) ^ x[0]
			x[2] += x[3]
			x[3] = imath.RotL64(x[3], rot[1]) ^ x[2]
		} else {
			x[0] += x[3]
			x[3] = imath.RotL64(x[3], rot[0]) ^ x[0]
			x[2] += x[1]
			x[1] = imath.RotL64(x[1], rot[1]) ^ x[2]
		}
		if (r+1)%4 == 0 {
			i := (r + 1) / 4
			for j := range x {
				x[j] += ks[(i+j)%5]
			}
			x[3] += uint64(i)
		}
	}
	return x
}
