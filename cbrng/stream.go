package cbrng

import (
	"math"
	"slices"

	imath "github.com/nozzle/kernelplan/internal/math"
)

// stream yields the raw words of successive counter blocks for one
// work-item, incrementing the counter after every block.
type stream struct {
	bitness int
	mask    uint64
	key     Key
	ctr     []uint64
	buf     []uint64
	pos     int
	block   blockFunc

	spare    float64
	hasSpare bool
}

func newStream(p Params, key Key, ctr []uint64) *stream {
	return &stream{
		bitness: p.Bitness,
		mask:    imath.Mask(p.Bitness),
		key:     key,
		ctr:     slices.Clone(ctr),
		buf:     make([]uint64, p.Words),
		pos:     p.Words,
		block:   p.blockFunc(),
	}
}

// word returns the next native word.
func (s *stream) word() uint64 {
	if s.pos == len(s.buf) {
		s.block(s.ctr, s.key, s.buf)
		increment(s.ctr, s.mask)
		s.pos = 0
	}
	w := s.buf[s.pos]
	s.pos++
	return w
}

// bits64 returns 64 random bits, joining two words for 32-bit generators.
func (s *stream) bits64() uint64 {
	if s.bitness == 64 {
		return s.word()
	}
	return s.word()<<32 | s.word()
}

// uniform returns a value in [0, 1) with a 24-bit mantissa when single is
// set and a 53-bit mantissa otherwise.
func (s *stream) uniform(single bool) float64 {
	if single {
		return float64(s.word()>>(s.bitness-24)) / (1 << 24)
	}
	if s.bitness == 64 {
		return float64(s.word()>>11) / (1 << 53)
	}
	a, b := s.word()>>5, s.word()>>6
	return (float64(a)*(1<<26) + float64(b)) / (1 << 53)
}

// normal returns a standard normal deviate. Box-Muller produces two per
// pair of uniforms; the second is kept for the next call.
func (s *stream) normal(single bool) float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}
	u1 := 1 - s.uniform(single)
	u2 := s.uniform(single)
	r := math.Sqrt(-2 * math.Log(u1))
	sin, cos := math.Sincos(2 * math.Pi * u2)
	s.spare, s.hasSpare = r*sin, true
	return r * cos
}

// gamma returns a Gamma(shape, 1) deviate by Marsaglia and Tsang's method.
// Shapes below one are boosted by one and scaled by U^(1/shape).
func (s *stream) gamma(shape float64, single bool) float64 {
	if shape < 1 {
		u := 1 - s.uniform(single)
		return s.gamma(shape+1, single) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3
	c := 1 / math.Sqrt(9*d)
	for {
		x := s.normal(single)
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := 1 - s.uniform(single)
		x2 := x * x
		if u < 1-0.0331*x2*x2 {
			return d * v
		}
		if math.Log(u) < 0.5*x2+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
