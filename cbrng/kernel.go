package cbrng

import (
	"fmt"

	"github.com/nozzle/kernelplan/plan"
)

// Kernel generates one batch of samples per work-item. Arguments are bound
// as (new_counters, randoms, old_counters).
type Kernel struct {
	params Params
	key    Key
	dist   Distribution
	size   int
	batch  int
}

// Name implements plan.Kernel.
func (k *Kernel) Name() string { return "cbrng" }

// Params returns the generator parameters.
func (k *Kernel) Params() Params { return k.params }

// Key returns a copy of the base key bound into the kernel.
func (k *Kernel) Key() Key { return append(Key(nil), k.key...) }

// Distribution returns the sampled distribution.
func (k *Kernel) Distribution() Distribution { return k.dist }

// Batch returns the number of samples each work-item draws.
func (k *Kernel) Batch() int { return k.batch }

func (k *Kernel) String() string {
	return fmt.Sprintf("cbrng(%v, %s, batch=%d)", k.params, k.dist.Name(), k.batch)
}

// Execute implements plan.Kernel. Sample b of work-item i lands at
// randoms[b*size+i], where size is the number of work-items.
func (k *Kernel) Execute(item int, args []*plan.Array) {
	newCounters, randoms, oldCounters := args[0], args[1], args[2]
	w := k.params.Words
	s := newStream(k.params, k.key.WithThread(k.params, uint64(item)), oldCounters.Uint[item*w:(item+1)*w])
	for b := 0; b < k.batch; b++ {
		k.dist.fill(s, randoms, b*k.size+item)
	}
	copy(newCounters.Uint[item*w:(item+1)*w], s.ctr)
}
