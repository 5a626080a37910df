// Package rand provides random number generation compatible with NumPy's RandomState.
// Key derivation relies on it so that an integer seed yields the same
// key words as RandomState-based tooling.
package rand

const (
	mtN        = 624
	mtM        = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	temperingB = 0x9d2c5680
	temperingC = 0xefc60000
)

// MT19937 is a Mersenne Twister random number generator compatible with NumPy.
type MT19937 struct {
	mt  [mtN]uint32
	mti int
}

// NewMT19937 creates a new Mersenne Twister with the given seed.
// This matches numpy.random.RandomState(seed).
func NewMT19937(seed uint32) *MT19937 {
	mt := &MT19937{}
	mt.Seed(seed)
	return mt
}

// Seed initializes the generator with a seed (init_genrand).
func (mt *MT19937) Seed(seed uint32) {
	mt.mt[0] = seed
	for i := 1; i < mtN; i++ {
		mt.mt[i] = 1812433253*(mt.mt[i-1]^(mt.mt[i-1]>>30)) + uint32(i)
	}
	mt.mti = mtN
}

func (mt *MT19937) twist() {
	mag01 := [2]uint32{0, matrixA}
	var y uint32
	kk := 0
	for ; kk < mtN-mtM; kk++ {
		y = (mt.mt[kk] & upperMask) | (mt.mt[kk+1] & lowerMask)
		mt.mt[kk] = mt.mt[kk+mtM] ^ (y >> 1) ^ mag01[y&1]
	}
	for ; kk < mtN-1; kk++ {
		y = (mt.mt[kk] & upperMask) | (mt.mt[kk+1] & lowerMask)
		mt.mt[kk] = mt.mt[kk+(mtM-mtN)] ^ (y >> 1) ^ mag01[y&1]
	}
	y = (mt.mt[mtN-1] & upperMask) | (mt.mt[0] & lowerMask)
	mt.mt[mtN-1] = mt.mt[mtM-1] ^ (y >> 1) ^ mag01[y&1]
	mt.mti = 0
}

// Uint32 generates a random uint32.
func (mt *MT19937) Uint32() uint32 {
	if mt.mti >= mtN {
		mt.twist()
	}

	y := mt.mt[mt.mti]
	mt.mti++

	// Tempering
	y ^= y >> 11
	y ^= (y << 7) & temperingB
	y ^= (y << 15) & temperingC
	y ^= y >> 18

	return y
}

// Float64 generates a random float64 in [0, 1) with 53-bit resolution.
// This matches numpy's random_sample().
func (mt *MT19937) Float64() float64 {
	a := mt.Uint32() >> 5
	b := mt.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// Uniform generates a random float64 in [low, high).
// This matches numpy.random.uniform(low, high).
func (mt *MT19937) Uniform(low, high float64) float64 {
	return low + (high-low)*mt.Float64()
}

// Bounded returns a value in [0, max] using NumPy's masked rejection
// sampling, so RandomState.randint(0, max+1) draws the same numbers.
func (mt *MT19937) Bounded(max uint32) uint32 {
	if max == 0 {
		return 0
	}
	mask := max
	mask |= mask >> 1
	mask |= mask >> 2
	mask |= mask >> 4
	mask |= mask >> 8
	mask |= mask >> 16
	for {
		v := mt.Uint32() & mask
		if v <= max {
			return v
		}
	}
}

// RandInt fills a fresh slice with n draws of randint(low, high).
func (mt *MT19937) RandInt(low, high uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = low + mt.Bounded(high-low-1)
	}
	return out
}
