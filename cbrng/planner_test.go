package cbrng

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/nozzle/kernelplan/plan"
)

// generator wraps a plan for counters of the given spatial shape and
// replays it on each next call, feeding the new counters back in.
type generator struct {
	plan     *plan.Plan
	op       *plan.KernelOp
	counters *plan.Array
	randoms  plan.ArrayDesc
}

func newGenerator(t *testing.T, cfg Config, dtype plan.DType, batch []int, spatial ...int) *generator {
	t.Helper()
	counters, err := NewCounters(cfg.Params, spatial...)
	require.NoError(t, err)
	randoms := plan.Desc(dtype, append(batch, spatial...)...)
	p, err := Plan(counters.Desc, randoms, counters.Desc, cfg)
	require.NoError(t, err)
	ops := p.Ops()
	require.Len(t, ops, 1)
	op, ok := ops[0].(*plan.KernelOp)
	require.True(t, ok)
	return &generator{plan: p, op: op, counters: counters, randoms: randoms}
}

func (g *generator) next() *plan.Array {
	randoms := plan.NewArray(g.randoms)
	newCounters := plan.NewArray(g.counters.Desc)
	args := []*plan.Array{newCounters, randoms, g.counters}
	for i := 0; i < g.op.GlobalSize; i++ {
		g.op.Kernel.Execute(i, args)
	}
	g.counters = newCounters
	return randoms
}

func TestPlanStructure(t *testing.T) {
	cfg := Config{Params: DefaultParams(Philox), Seed: SeedValue(42), Distribution: DefaultNormal()}
	g := newGenerator(t, cfg, plan.Float64, []int{8}, 3, 5)

	assert.Equal(t, 15, g.op.GlobalSize)
	assert.Equal(t, "cbrng", g.op.Kernel.Name())
	assert.Equal(t, map[string]int{"kernel": 1}, g.plan.Count())

	newH, _ := g.plan.Lookup("new_counters")
	randH, _ := g.plan.Lookup("randoms")
	oldH, _ := g.plan.Lookup("old_counters")
	assert.Equal(t, []plan.Handle{newH, randH, oldH}, g.op.Args())
	assert.Equal(t, []plan.Dependency{{Dependent: newH, On: oldH}, {Dependent: newH, On: randH}}, g.op.Dependencies)

	k := g.op.Kernel.(*Kernel)
	assert.Equal(t, 8, k.Batch())
	assert.Equal(t, Key{0xdc663db3035c950e, 0}, k.Key())
}

// Full-range integers shift the raw word by 2^63, so the samples expose
// the Philox-4x64 blocks directly.
func TestKernelPinnedWords(t *testing.T) {
	cfg := Config{Params: DefaultParams(Philox), Seed: SeedValue(42), Distribution: DefaultUniformInteger(64)}
	g := newGenerator(t, cfg, plan.Uint64, []int{2}, 2)

	const flip = 1 << 63
	got := g.next()
	assert.Equal(t, []uint64{
		0x3de481185e5116bd ^ flip, 0xa70a3da43bf56725 ^ flip,
		0x536d6e616fdb6298 ^ flip, 0x354f9e4837e210c2 ^ flip,
	}, got.Uint)
	assert.Equal(t, []uint64{1, 0, 0, 0, 1, 0, 0, 0}, g.counters.Uint)

	got = g.next()
	assert.Equal(t, uint64(0x95b675f1a72d4bb3^flip), got.Uint[0])
	assert.Equal(t, []uint64{2, 0, 0, 0, 2, 0, 0, 0}, g.counters.Uint)
}

func TestKernelPinnedWords32(t *testing.T) {
	cfg := Config{
		Params:       Params{Algorithm: Threefry, Bitness: 32, Words: 2},
		Seed:         SeedValue(42),
		Distribution: DefaultUniformInteger(32),
	}
	g := newGenerator(t, cfg, plan.Uint32, []int{3})
	got := g.next()
	assert.Equal(t, []uint64{0x23e83bd3, 0x6f00d025, 0xe98ae8be}, got.Uint)
	assert.Equal(t, []uint64{2, 0}, g.counters.Uint)
}

func TestKernelDeterminism(t *testing.T) {
	cfg := Config{Params: DefaultParams(Threefry), Seed: SeedValue(3), Distribution: DefaultUniformFloat()}
	a := newGenerator(t, cfg, plan.Float64, []int{4}, 6).next()
	b := newGenerator(t, cfg, plan.Float64, []int{4}, 6).next()
	assert.Equal(t, a.Float, b.Float)

	cfg.Seed = SeedValue(4)
	c := newGenerator(t, cfg, plan.Float64, []int{4}, 6).next()
	assert.NotEqual(t, a.Float, c.Float)

	// Neighbouring work-items use different keys.
	assert.NotEqual(t, a.Float[0], a.Float[1])
}

func TestUniformIntegerRange(t *testing.T) {
	for _, params := range []Params{DefaultParams(Philox), {Algorithm: Philox, Bitness: 32, Words: 4}} {
		cfg := Config{Params: params, Seed: SeedValue(11), Distribution: UniformInteger{Min: -3, Max: 3}}
		got := newGenerator(t, cfg, plan.Int32, []int{500}, 4).next()
		seen := map[int64]int{}
		for i := range got.Uint {
			v := got.Int(i)
			require.True(t, v >= -3 && v <= 3, "%v: %d out of range", params, v)
			seen[v]++
		}
		assert.Len(t, seen, 7, "%v", params)
	}
}

func TestUniformFloatRange(t *testing.T) {
	for _, dtype := range []plan.DType{plan.Float32, plan.Float64} {
		cfg := Config{Params: Params{Algorithm: Threefry, Bitness: 32, Words: 4}, Seed: SeedValue(5), Distribution: UniformFloat{Min: 2, Max: 5}}
		got := newGenerator(t, cfg, dtype, []int{1000}, 8).next()
		for _, v := range got.Float {
			require.True(t, v >= 2 && v < 5, "%v: %v outside [2, 5)", dtype, v)
			if dtype == plan.Float32 {
				require.Equal(t, v, float64(float32(v)))
			}
		}
		mean, err := stats.Mean(got.Float)
		require.NoError(t, err)
		assert.InDelta(t, 3.5, mean, 0.05, "%v", dtype)
	}
}

func TestUniformFloatSingleBounds(t *testing.T) {
	// 0.7 has no float32 form; the nearest one lies below it.
	cfg := Config{Params: DefaultParams(Philox), Seed: SeedValue(6), Distribution: UniformFloat{Min: 0.7, Max: 0.7000005}}
	got := newGenerator(t, cfg, plan.Float32, []int{1000}, 4).next()
	for _, v := range got.Float {
		require.True(t, v >= 0.7 && v < 0.7000005, "%v outside [0.7, 0.7000005)", v)
		require.Equal(t, v, float64(float32(v)))
	}
}

func TestNormalMoments(t *testing.T) {
	cfg := Config{Params: DefaultParams(Philox), Seed: SeedValue(9), Distribution: NormalBM{Mean: 1.5, Std: 2}}
	got := newGenerator(t, cfg, plan.Float64, []int{2001}, 10).next()

	mean, err := stats.Mean(got.Float)
	require.NoError(t, err)
	std, err := stats.StandardDeviation(got.Float)
	require.NoError(t, err)
	ref := distuv.Normal{Mu: 1.5, Sigma: 2}
	assert.InDelta(t, ref.Mean(), mean, 0.1)
	assert.InDelta(t, ref.StdDev(), std, 0.1)

	// Roughly 68% of the mass lies within one standard deviation.
	within := 0
	for _, v := range got.Float {
		if math.Abs(v-1.5) < 2 {
			within++
		}
	}
	assert.InDelta(t, 0.6827, float64(within)/float64(len(got.Float)), 0.02)
}

func TestGammaMoments(t *testing.T) {
	for _, d := range []Gamma{{Shape: 0.5, Scale: 1}, {Shape: 3, Scale: 2}} {
		cfg := Config{Params: DefaultParams(Threefry), Seed: SeedValue(21), Distribution: d}
		got := newGenerator(t, cfg, plan.Float64, []int{2000}, 10).next()
		for _, v := range got.Float {
			require.True(t, v > 0, "gamma sample %v", v)
		}
		mean, variance := stat.MeanVariance(got.Float, nil)
		ref := distuv.Gamma{Alpha: d.Shape, Beta: 1 / d.Scale}
		assert.InEpsilon(t, ref.Mean(), mean, 0.05, "%+v", d)
		assert.InEpsilon(t, ref.Variance(), variance, 0.15, "%+v", d)
	}
}

func TestPlanRejectsBadArguments(t *testing.T) {
	p := DefaultParams(Philox)
	counters := CounterDesc(p, 4)
	randoms := plan.Desc(plan.Float64, 2, 4)
	cfg := Config{Params: p, Seed: SeedValue(1)}

	tests := []struct {
		name          string
		newC, r, oldC plan.ArrayDesc
		cfg           Config
		err           error
	}{
		{"counter mismatch", CounterDesc(p, 5), randoms, counters, cfg, plan.ErrShapeMismatch},
		{"counter dtype", plan.Desc(plan.Uint32, 4, 4), randoms, plan.Desc(plan.Uint32, 4, 4), cfg, plan.ErrDTypeMismatch},
		{"counter words", plan.Desc(plan.Uint64, 4, 2), randoms, plan.Desc(plan.Uint64, 4, 2), cfg, plan.ErrShapeMismatch},
		{"spatial shape", counters, plan.Desc(plan.Float64, 4, 2), counters, cfg, plan.ErrShapeMismatch},
		{"float dist int output", counters, plan.Desc(plan.Int32, 2, 4), counters, cfg, plan.ErrDTypeMismatch},
		{"int dist float output", counters, randoms, counters, Config{Params: p, Distribution: DefaultUniformInteger(64)}, plan.ErrDTypeMismatch},
		{"empty range", counters, randoms, counters, Config{Params: p, Distribution: UniformFloat{Min: 1, Max: 1}}, ErrInvalidDistribution},
		{"int32 overflow", counters, plan.Desc(plan.Int32, 2, 4), counters, Config{Params: p, Distribution: DefaultUniformInteger(32)}, ErrInvalidDistribution},
		{"negative std", counters, randoms, counters, Config{Params: p, Distribution: NormalBM{Std: -1}}, ErrInvalidDistribution},
		{"gamma shape", counters, randoms, counters, Config{Params: p, Distribution: Gamma{Shape: 0, Scale: 1}}, ErrInvalidDistribution},
		{"philox2x32", counters, randoms, counters, Config{Params: Params{Algorithm: Philox, Bitness: 32, Words: 2}}, ErrUnsupportedConfig},
		{"explicit key", counters, randoms, counters, Config{Params: p, Seed: SeedKey(1)}, ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(tt.newC, tt.r, tt.oldC, tt.cfg)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseDistribution(t *testing.T) {
	d, err := ParseDistribution("gamma", 64)
	require.NoError(t, err)
	assert.Equal(t, DefaultGamma(), d)
	d, err = ParseDistribution("uniform_integer", 32)
	require.NoError(t, err)
	assert.Equal(t, UniformInteger{Min: 0, Max: math.MaxUint32}, d)
	_, err = ParseDistribution("cauchy", 64)
	assert.ErrorIs(t, err, ErrInvalidDistribution)
}
