// Package cpu replays plans on the host. Kernel work-items are spread over
// a bounded worker pool; nested computations run on gonum.
package cpu

import (
	"context"
	"fmt"
	"log"

	"github.com/nozzle/kernelplan/internal/parallel"
	"github.com/nozzle/kernelplan/plan"
)

// Config configures an Executor.
type Config struct {
	// NumWorkers bounds the goroutines running kernel work-items.
	// 0 = auto-detect based on CPU cores.
	// Default: 0
	NumWorkers int

	// ChunkSize is the number of work-items handed to a worker at once.
	// 0 = one chunk per worker.
	// Default: 0
	ChunkSize int

	// Verbose logs every replayed operation.
	// Default: false
	Verbose bool

	// Logf receives verbose output.
	// Default: log.Printf
	Logf func(format string, args ...any)
}

// DefaultConfig returns the default executor configuration.
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		ChunkSize:  0,
		Verbose:    false,
		Logf:       log.Printf,
	}
}

// Executor runs plans. It holds no per-run state and may be shared.
type Executor struct {
	config Config
}

// NewExecutor creates an executor with the given configuration.
func NewExecutor(config Config) *Executor {
	if config.Logf == nil {
		config.Logf = log.Printf
	}
	return &Executor{config: config}
}

func (e *Executor) logf(format string, args ...any) {
	if e.config.Verbose {
		e.config.Logf(format, args...)
	}
}

// Run replays p with args bound by argument name. Every input and output
// must be bound to an array matching its descriptor. Operations run in
// order; ctx is checked between operations and between chunks of a kernel.
func (e *Executor) Run(ctx context.Context, p *plan.Plan, args map[string]*plan.Array) error {
	buffers := p.Buffers()
	bound := make([]*plan.Array, len(buffers))
	for _, h := range p.Arguments() {
		b := buffers[h]
		a, ok := args[b.Name]
		if !ok || a == nil {
			return fmt.Errorf("cpu: %w: %q", plan.ErrMissingArgument, b.Name)
		}
		if err := a.CheckDesc(b.Desc); err != nil {
			return fmt.Errorf("cpu: argument %q: %w", b.Name, err)
		}
		bound[h] = a
	}
	for name := range args {
		if _, ok := p.Lookup(name); !ok {
			return fmt.Errorf("cpu: %w: plan %s has no argument %q", plan.ErrUnknownHandle, p.Name(), name)
		}
	}

	e.logf("cpu: running %s (%d ops)", p.Name(), len(p.Ops()))
	for i, op := range p.Ops() {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch op := op.(type) {
		case *plan.AllocOp:
			bound[op.Buffer] = plan.NewArray(buffers[op.Buffer].Desc)
			e.logf("cpu: [%d] alloc %s %v", i, buffers[op.Buffer].Name, buffers[op.Buffer].Desc)
		case *plan.ConstOp:
			bound[op.Buffer] = buffers[op.Buffer].Data.Clone()
			e.logf("cpu: [%d] const %s %v", i, buffers[op.Buffer].Name, buffers[op.Buffer].Desc)
		case *plan.KernelOp:
			if err := e.kernel(ctx, op, bound); err != nil {
				return err
			}
			e.logf("cpu: [%d] kernel %s x%d", i, op.Kernel.Name(), op.GlobalSize)
		case *plan.ComputationOp:
			if err := compute(op, bound); err != nil {
				return fmt.Errorf("cpu: op %d: %w", i, err)
			}
			e.logf("cpu: [%d] %s -> %s", i, op.Computation.Kind(), buffers[op.Output].Name)
		default:
			return fmt.Errorf("cpu: op %d: unsupported operation %T", i, op)
		}
	}
	return nil
}

func (e *Executor) kernel(ctx context.Context, op *plan.KernelOp, bound []*plan.Array) error {
	handles := op.Args()
	args := make([]*plan.Array, len(handles))
	for i, h := range handles {
		args[i] = bound[h]
	}
	return parallel.ForChunked(ctx, 0, op.GlobalSize, e.config.ChunkSize, e.config.NumWorkers, func(start, end int) {
		for item := start; item < end; item++ {
			op.Kernel.Execute(item, args)
		}
	})
}
