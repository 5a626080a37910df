// Package kernelplan builds and replays data-parallel kernel plans for two
// numerical tools: counter-based random number generation (Philox and
// Threefry) and discrete harmonic transforms on Gauss-Hermite grids.
//
// Plans are built once per basis and cached, then replayed on the host
// executor as often as needed:
//
//	p := kernelplan.New(kernelplan.DefaultConfig())
//	counters, _ := cbrng.NewCounters(cbrng.DefaultParams(cbrng.Philox), 128)
//	randoms, counters, err := p.Random(ctx, counters, plan.Float64, []int{16}, cfg)
package kernelplan

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nozzle/kernelplan/cbrng"
	"github.com/nozzle/kernelplan/cpu"
	"github.com/nozzle/kernelplan/dht"
	"github.com/nozzle/kernelplan/plan"
)

// Config configures a Planner.
type Config struct {
	// NumWorkers for parallel kernel execution.
	// 0 = auto-detect based on CPU cores.
	// Default: 0
	NumWorkers int

	// ChunkSize is the number of work-items a worker takes at once.
	// 0 = one chunk per worker.
	// Default: 0
	ChunkSize int

	// Verbose enables progress output.
	// Default: false
	Verbose bool

	// Logf receives progress output.
	// Default: log.Printf
	Logf func(format string, args ...any)
}

// DefaultConfig returns the default planner configuration.
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		ChunkSize:  0,
		Verbose:    false,
		Logf:       log.Printf,
	}
}

// Planner caches plans per basis and runs them on the host executor. It
// is safe for concurrent use; concurrent requests for the same basis share
// one build.
type Planner struct {
	Config Config

	exec  *cpu.Executor
	group singleflight.Group

	mu     sync.Mutex
	plans  map[string]*plan.Plan
	builds int
}

// New creates a Planner with the given configuration.
func New(config Config) *Planner {
	if config.Logf == nil {
		config.Logf = log.Printf
	}
	return &Planner{
		Config: config,
		exec: cpu.NewExecutor(cpu.Config{
			NumWorkers: config.NumWorkers,
			ChunkSize:  config.ChunkSize,
			Verbose:    config.Verbose,
			Logf:       config.Logf,
		}),
		plans: make(map[string]*plan.Plan),
	}
}

func (p *Planner) logf(format string, args ...any) {
	if p.Config.Verbose {
		p.Config.Logf(format, args...)
	}
}

// Len returns the number of cached plans.
func (p *Planner) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.plans)
}

// Builds returns how many plans have been built, cached or not.
func (p *Planner) Builds() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.builds
}

func (p *Planner) cached(key string, build func() (*plan.Plan, error)) (*plan.Plan, error) {
	p.mu.Lock()
	pl, ok := p.plans[key]
	p.mu.Unlock()
	if ok {
		return pl, nil
	}

	v, err, _ := p.group.Do(key, func() (any, error) {
		pl, err := p.build(build)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.plans[key] = pl
		p.mu.Unlock()
		return pl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*plan.Plan), nil
}

func (p *Planner) build(build func() (*plan.Plan, error)) (*plan.Plan, error) {
	pl, err := build()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.builds++
	p.mu.Unlock()
	p.logf("kernelplan: built %s (%v)", pl.Name(), pl.Count())
	return pl, nil
}

// CBRNG returns the generator plan for the given counters and randoms.
// Plans with an entropy seed get a fresh key every time and are never
// cached.
func (p *Planner) CBRNG(newCounters, randoms, oldCounters plan.ArrayDesc, cfg cbrng.Config) (*plan.Plan, error) {
	if cfg.Seed.Entropy() {
		return p.build(func() (*plan.Plan, error) {
			return cbrng.Plan(newCounters, randoms, oldCounters, cfg)
		})
	}
	key := fmt.Sprintf("cbrng|%v|%v|%v|%v|%v|%#v",
		newCounters, randoms, oldCounters, cfg.Params.Normalize(), cfg.Seed, cfg.Distribution)
	return p.cached(key, func() (*plan.Plan, error) {
		return cbrng.Plan(newCounters, randoms, oldCounters, cfg)
	})
}

// DHT returns the harmonic transform plan from input to output.
func (p *Planner) DHT(output, input plan.ArrayDesc, opts dht.Options) (*plan.Plan, error) {
	key := fmt.Sprintf("dht|%v|%v|%t|%d|%#v", output, input, opts.Inverse, opts.Order, opts.Axes)
	return p.cached(key, func() (*plan.Plan, error) {
		return dht.Plan(output, input, opts)
	})
}

// Run replays pl with arguments bound by name.
func (p *Planner) Run(ctx context.Context, pl *plan.Plan, args map[string]*plan.Array) error {
	return p.exec.Run(ctx, pl, args)
}

// Random draws one batch of samples per counter and returns them together
// with the advanced counters. randoms has shape batch+spatial, where
// spatial is the counter shape without its trailing word axis.
func (p *Planner) Random(ctx context.Context, counters *plan.Array, dtype plan.DType, batch []int, cfg cbrng.Config) (randoms, next *plan.Array, err error) {
	shape := counters.Desc.Shape
	if len(shape) == 0 {
		return nil, nil, fmt.Errorf("kernelplan: %w: counters have no word axis", plan.ErrShapeMismatch)
	}
	spatial := shape[:len(shape)-1]
	randomsDesc := plan.Desc(dtype, append(slices.Clone(batch), spatial...)...)
	pl, err := p.CBRNG(counters.Desc, randomsDesc, counters.Desc, cfg)
	if err != nil {
		return nil, nil, err
	}
	randoms = plan.NewArray(randomsDesc)
	next = plan.NewArray(counters.Desc)
	err = p.Run(ctx, pl, map[string]*plan.Array{
		"new_counters": next,
		"randoms":      randoms,
		"old_counters": counters,
	})
	if err != nil {
		return nil, nil, err
	}
	return randoms, next, nil
}

// Transform applies a harmonic transform to input, producing an array of
// the given shape.
func (p *Planner) Transform(ctx context.Context, input *plan.Array, shape []int, opts dht.Options) (*plan.Array, error) {
	output := plan.NewArray(plan.Desc(input.Desc.DType, shape...))
	pl, err := p.DHT(output.Desc, input.Desc, opts)
	if err != nil {
		return nil, err
	}
	err = p.Run(ctx, pl, map[string]*plan.Array{"output": output, "input": input})
	if err != nil {
		return nil, err
	}
	return output, nil
}
