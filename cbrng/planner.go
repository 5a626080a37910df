package cbrng

import (
	"fmt"
	"slices"

	imath "github.com/nozzle/kernelplan/internal/math"
	"github.com/nozzle/kernelplan/plan"
)

// Config configures a generator plan.
type Config struct {
	// Params selects the bijection.
	// Default: DefaultParams(Philox)
	Params Params

	// Seed selects the key. The zero Seed draws fresh entropy.
	// Default: Seed{}
	Seed Seed

	// Distribution is the sampled distribution; nil means UniformFloat{0, 1}.
	// Default: UniformFloat{0, 1}
	Distribution Distribution
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		Params:       DefaultParams(Philox),
		Distribution: DefaultUniformFloat(),
	}
}

// Plan records a generator that fills randoms from oldCounters and writes
// the advanced counters to newCounters. The counters have shape
// spatial+(Words,); randoms has shape batch+spatial, one work-item per
// spatial position.
func Plan(newCounters, randoms, oldCounters plan.ArrayDesc, cfg Config) (*plan.Plan, error) {
	p := cfg.Params.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dist := cfg.Distribution
	if dist == nil {
		dist = DefaultUniformFloat()
	}
	if err := checkCounters(p, newCounters, oldCounters); err != nil {
		return nil, err
	}
	spatial := oldCounters.Shape[:oldCounters.Rank()-1]
	if randoms.Rank() < len(spatial) || !slices.Equal(randoms.Shape[randoms.Rank()-len(spatial):], spatial) {
		return nil, fmt.Errorf("%w: randoms %v do not end with the counter spatial shape %v",
			plan.ErrShapeMismatch, randoms, spatial)
	}
	if err := randoms.Validate(); err != nil {
		return nil, err
	}
	if err := dist.validate(randoms.DType); err != nil {
		return nil, err
	}
	key, err := DeriveKey(p, cfg.Seed)
	if err != nil {
		return nil, err
	}

	size := imath.Product(spatial)
	k := &Kernel{
		params: p,
		key:    key,
		dist:   dist,
		size:   size,
		batch:  imath.Product(randoms.Shape[:randoms.Rank()-len(spatial)]),
	}

	r := plan.NewRecorder(fmt.Sprintf("cbrng_%v_%s", p, dist.Name()))
	newH := r.Output("new_counters", newCounters)
	randH := r.Output("randoms", randoms)
	oldH := r.Input("old_counters", oldCounters)
	r.AddKernel(k, []plan.Handle{newH, randH}, []plan.Handle{oldH}, size, []plan.Dependency{
		{Dependent: newH, On: oldH},
		{Dependent: newH, On: randH},
	})
	return r.Finish()
}

func checkCounters(p Params, newCounters, oldCounters plan.ArrayDesc) error {
	if !newCounters.Equal(oldCounters) {
		return fmt.Errorf("%w: new counters %v differ from old counters %v",
			plan.ErrShapeMismatch, newCounters, oldCounters)
	}
	if err := oldCounters.Validate(); err != nil {
		return err
	}
	if oldCounters.DType != p.CounterDType() {
		return fmt.Errorf("%w: counters are %v, %d-bit generator needs %v",
			plan.ErrDTypeMismatch, oldCounters.DType, p.Bitness, p.CounterDType())
	}
	if oldCounters.Rank() == 0 || oldCounters.Shape[oldCounters.Rank()-1] != p.Words {
		return fmt.Errorf("%w: counters %v must end with %d words",
			plan.ErrShapeMismatch, oldCounters, p.Words)
	}
	return nil
}
