// Package plan records the operation sequences produced by the kernel
// planners. A plan is built once per basis (shapes, dtypes and parameters)
// and replayed by a device for every execution.
package plan

import (
	"fmt"
	"slices"
	"strings"
)

// Handle identifies a buffer within a plan.
type Handle int

// BufferKind tells where a buffer comes from.
type BufferKind uint8

const (
	KindInput BufferKind = iota
	KindOutput
	KindTemp
	KindConst
)

func (k BufferKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindTemp:
		return "temp"
	case KindConst:
		return "const"
	}
	return "unknown"
}

// Buffer is an entry of the plan's buffer table.
type Buffer struct {
	Name string
	Desc ArrayDesc
	Kind BufferKind
	// Data holds the contents of a constant buffer.
	Data *Array
}

// Kernel is a data-parallel kernel. Execute runs one work-item; the device
// calls it for every item in [0, GlobalSize) with the arguments bound in
// the order they were recorded (outputs first, then inputs).
type Kernel interface {
	Name() string
	Execute(item int, args []*Array)
}

// Dependency states that Dependent must be scheduled after On.
type Dependency struct {
	Dependent Handle
	On        Handle
}

// Op is one recorded step.
type Op interface {
	Writes() []Handle
	Reads() []Handle
}

// KernelOp invokes a kernel over GlobalSize work-items.
type KernelOp struct {
	Kernel       Kernel
	Outputs      []Handle
	Inputs       []Handle
	GlobalSize   int
	Dependencies []Dependency
}

func (o *KernelOp) Writes() []Handle { return o.Outputs }
func (o *KernelOp) Reads() []Handle  { return o.Inputs }

// Args returns the kernel arguments in binding order.
func (o *KernelOp) Args() []Handle {
	return append(slices.Clone(o.Outputs), o.Inputs...)
}

// AllocOp allocates a temporary buffer.
type AllocOp struct {
	Buffer Handle
}

func (o *AllocOp) Writes() []Handle { return nil }
func (o *AllocOp) Reads() []Handle  { return nil }

// ConstOp uploads a constant buffer.
type ConstOp struct {
	Buffer Handle
}

func (o *ConstOp) Writes() []Handle { return nil }
func (o *ConstOp) Reads() []Handle  { return nil }

// ComputationOp runs a nested computation.
type ComputationOp struct {
	Computation Computation
	Output      Handle
	Inputs      []Handle
}

func (o *ComputationOp) Writes() []Handle { return []Handle{o.Output} }
func (o *ComputationOp) Reads() []Handle  { return o.Inputs }

// Plan is an immutable, replayable sequence of operations.
type Plan struct {
	name    string
	buffers []Buffer
	ops     []Op
}

// Name returns the plan name.
func (p *Plan) Name() string { return p.name }

// Ops returns the recorded operations in execution order.
func (p *Plan) Ops() []Op { return slices.Clone(p.ops) }

// Buffers returns the buffer table indexed by Handle.
func (p *Plan) Buffers() []Buffer { return slices.Clone(p.buffers) }

// Buffer returns the entry for h.
func (p *Plan) Buffer(h Handle) Buffer { return p.buffers[h] }

// Lookup returns the handle of the argument with the given name.
func (p *Plan) Lookup(name string) (Handle, bool) {
	for i, b := range p.buffers {
		if (b.Kind == KindInput || b.Kind == KindOutput) && b.Name == name {
			return Handle(i), true
		}
	}
	return 0, false
}

// Arguments returns the argument handles (outputs and inputs) in
// declaration order.
func (p *Plan) Arguments() []Handle {
	var hs []Handle
	for i, b := range p.buffers {
		if b.Kind == KindInput || b.Kind == KindOutput {
			hs = append(hs, Handle(i))
		}
	}
	return hs
}

// Count returns how many operations of each type the plan holds, keyed by
// "kernel", "alloc", "const" and the nested computation kinds.
func (p *Plan) Count() map[string]int {
	c := make(map[string]int)
	for _, op := range p.ops {
		c[opLabel(op)]++
	}
	return c
}

func opLabel(op Op) string {
	switch o := op.(type) {
	case *KernelOp:
		return "kernel"
	case *AllocOp:
		return "alloc"
	case *ConstOp:
		return "const"
	case *ComputationOp:
		return o.Computation.Kind().String()
	}
	return "unknown"
}

func (p *Plan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "plan %s\n", p.name)
	name := func(h Handle) string { return p.buffers[h].Name }
	names := func(hs []Handle) string {
		s := make([]string, len(hs))
		for i, h := range hs {
			s[i] = name(h)
		}
		return strings.Join(s, ", ")
	}
	for i, op := range p.ops {
		switch o := op.(type) {
		case *KernelOp:
			fmt.Fprintf(&sb, "%3d kernel %s(%s <- %s) items=%d\n", i, o.Kernel.Name(), names(o.Outputs), names(o.Inputs), o.GlobalSize)
		case *AllocOp:
			fmt.Fprintf(&sb, "%3d alloc %s %v\n", i, name(o.Buffer), p.buffers[o.Buffer].Desc)
		case *ConstOp:
			fmt.Fprintf(&sb, "%3d const %s %v\n", i, name(o.Buffer), p.buffers[o.Buffer].Desc)
		case *ComputationOp:
			extra := ""
			if t, ok := o.Computation.(Transpose); ok {
				extra = fmt.Sprintf(" axes=%v", []int(t.Axes))
			}
			fmt.Fprintf(&sb, "%3d %s %s <- %s%s\n", i, o.Computation.Kind(), name(o.Output), names(o.Inputs), extra)
		}
	}
	return sb.String()
}
