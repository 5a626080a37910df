package cbrng

import (
	"fmt"
	"math"
	"math/bits"

	imath "github.com/nozzle/kernelplan/internal/math"
	"github.com/nozzle/kernelplan/plan"
)

// Distribution is one of UniformInteger, UniformFloat, NormalBM or Gamma.
type Distribution interface {
	// Name identifies the distribution in plan names and logs.
	Name() string

	validate(dtype plan.DType) error
	fill(s *stream, dst *plan.Array, idx int)
}

// UniformInteger draws integers from the inclusive range [Min, Max] by
// multiply-shift range reduction. The range MinInt64..MaxInt64 covers every
// 64-bit pattern and is also accepted for uint64 output.
type UniformInteger struct {
	Min, Max int64
}

// UniformFloat draws reals from [Min, Max).
type UniformFloat struct {
	Min, Max float64
}

// NormalBM draws normal deviates with the Box-Muller transform.
type NormalBM struct {
	Mean, Std float64
}

// Gamma draws gamma deviates with shape k and scale theta.
type Gamma struct {
	Shape, Scale float64
}

// DefaultUniformInteger covers every value of a generator word.
func DefaultUniformInteger(bitness int) UniformInteger {
	if bitness == 32 {
		return UniformInteger{Min: 0, Max: math.MaxUint32}
	}
	return UniformInteger{Min: math.MinInt64, Max: math.MaxInt64}
}

// DefaultUniformFloat is the unit interval.
func DefaultUniformFloat() UniformFloat { return UniformFloat{Min: 0, Max: 1} }

// DefaultNormal is the standard normal.
func DefaultNormal() NormalBM { return NormalBM{Mean: 0, Std: 1} }

// DefaultGamma is the exponential distribution Gamma(1, 1).
func DefaultGamma() Gamma { return Gamma{Shape: 1, Scale: 1} }

// ParseDistribution maps a distribution name to its default parameters.
func ParseDistribution(name string, bitness int) (Distribution, error) {
	switch name {
	case "uniform_integer":
		return DefaultUniformInteger(bitness), nil
	case "uniform_float":
		return DefaultUniformFloat(), nil
	case "normal_bm":
		return DefaultNormal(), nil
	case "gamma":
		return DefaultGamma(), nil
	}
	return nil, fmt.Errorf("%w: unknown distribution %q", ErrInvalidDistribution, name)
}

func (UniformInteger) Name() string { return "uniform_integer" }
func (UniformFloat) Name() string   { return "uniform_float" }
func (NormalBM) Name() string       { return "normal_bm" }
func (Gamma) Name() string          { return "gamma" }

func (d UniformInteger) full() bool {
	return d.Min == math.MinInt64 && d.Max == math.MaxInt64
}

func (d UniformInteger) validate(dtype plan.DType) error {
	if !dtype.IsInteger() {
		return fmt.Errorf("%w: %s needs an integer dtype, got %v", plan.ErrDTypeMismatch, d.Name(), dtype)
	}
	if d.Max < d.Min {
		return fmt.Errorf("%w: empty range [%d, %d]", ErrInvalidDistribution, d.Min, d.Max)
	}
	var lo, hi int64
	switch dtype {
	case plan.Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	case plan.Uint32:
		lo, hi = 0, math.MaxUint32
	case plan.Int64:
		return nil
	case plan.Uint64:
		if d.Min >= 0 || d.full() {
			return nil
		}
		lo, hi = 0, math.MaxInt64
	}
	if d.Min < lo || d.Max > hi {
		return fmt.Errorf("%w: range [%d, %d] does not fit %v", ErrInvalidDistribution, d.Min, d.Max, dtype)
	}
	return nil
}

func (d UniformInteger) fill(s *stream, dst *plan.Array, idx int) {
	span := uint64(d.Max) - uint64(d.Min) + 1
	var offset uint64
	switch {
	case span == 0:
		offset = s.bits64()
	case s.bitness == 32 && span <= 1<<32:
		offset = (s.word() * span) >> 32
	default:
		offset, _ = bits.Mul64(s.bits64(), span)
	}
	v := uint64(d.Min) + offset
	dst.Uint[idx] = v & imath.Mask(dst.Desc.DType.Bits())
}

func checkFloat(name string, dtype plan.DType) error {
	if !dtype.IsFloat() {
		return fmt.Errorf("%w: %s needs a real float dtype, got %v", plan.ErrDTypeMismatch, name, dtype)
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (d UniformFloat) validate(dtype plan.DType) error {
	if err := checkFloat(d.Name(), dtype); err != nil {
		return err
	}
	if !finite(d.Min, d.Max) || d.Max <= d.Min {
		return fmt.Errorf("%w: empty or unbounded range [%v, %v)", ErrInvalidDistribution, d.Min, d.Max)
	}
	return nil
}

func (d UniformFloat) fill(s *stream, dst *plan.Array, idx int) {
	single := dst.Desc.DType.Single()
	v := d.Min + (d.Max-d.Min)*s.uniform(single)
	if single {
		v = imath.Round32(v)
	}
	if v < d.Min {
		v = imath.AtLeast(d.Min, single)
	}
	if v >= d.Max {
		v = imath.Below(d.Max, single)
	}
	dst.Float[idx] = v
}

func (d NormalBM) validate(dtype plan.DType) error {
	if err := checkFloat(d.Name(), dtype); err != nil {
		return err
	}
	if !finite(d.Mean, d.Std) || d.Std < 0 {
		return fmt.Errorf("%w: normal(%v, %v)", ErrInvalidDistribution, d.Mean, d.Std)
	}
	return nil
}

func (d NormalBM) fill(s *stream, dst *plan.Array, idx int) {
	single := dst.Desc.DType.Single()
	v := d.Mean + d.Std*s.normal(single)
	if single {
		v = imath.Round32(v)
	}
	dst.Float[idx] = v
}

func (d Gamma) validate(dtype plan.DType) error {
	if err := checkFloat(d.Name(), dtype); err != nil {
		return err
	}
	if !finite(d.Shape, d.Scale) || d.Shape <= 0 || d.Scale <= 0 {
		return fmt.Errorf("%w: gamma(%v, %v)", ErrInvalidDistribution, d.Shape, d.Scale)
	}
	return nil
}

func (d Gamma) fill(s *stream, dst *plan.Array, idx int) {
	single := dst.Desc.DType.Single()
	v := d.Scale * s.gamma(d.Shape, single)
	if single {
		v = imath.Round32(v)
	}
	dst.Float[idx] = v
}
