package plan

import "fmt"

// Recorder accumulates buffers and operations. The first structural error
// is sticky: later calls become no-ops and Finish reports it.
type Recorder struct {
	name    string
	buffers []Buffer
	ops     []Op
	written []bool
	err     error
}

// NewRecorder starts an empty plan.
func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

// Err returns the first recording error, if any.
func (r *Recorder) Err() error { return r.err }

func (r *Recorder) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Recorder) declare(b Buffer) Handle {
	if r.err != nil {
		return -1
	}
	if err := b.Desc.Validate(); err != nil {
		r.fail(fmt.Errorf("%s: %w", b.Name, err))
		return -1
	}
	if b.Kind == KindInput || b.Kind == KindOutput {
		for _, o := range r.buffers {
			if (o.Kind == KindInput || o.Kind == KindOutput) && o.Name == b.Name {
				r.fail(fmt.Errorf("%w: %q", ErrDuplicateName, b.Name))
				return -1
			}
		}
	}
	b.Desc = b.Desc.Clone()
	r.buffers = append(r.buffers, b)
	r.written = append(r.written, false)
	return Handle(len(r.buffers) - 1)
}

// Output declares an output argument.
func (r *Recorder) Output(name string, desc ArrayDesc) Handle {
	return r.declare(Buffer{Name: name, Desc: desc, Kind: KindOutput})
}

// Input declares an input argument.
func (r *Recorder) Input(name string, desc ArrayDesc) Handle {
	return r.declare(Buffer{Name: name, Desc: desc, Kind: KindInput})
}

// Desc returns the descriptor of a declared buffer.
func (r *Recorder) Desc(h Handle) ArrayDesc {
	if !r.valid(h) {
		return ArrayDesc{}
	}
	return r.buffers[h].Desc
}

// AddAllocation records a temporary buffer allocation.
func (r *Recorder) AddAllocation(desc ArrayDesc) Handle {
	h := r.declare(Buffer{Name: fmt.Sprintf("_temp%d", len(r.buffers)), Desc: desc, Kind: KindTemp})
	if h >= 0 {
		r.ops = append(r.ops, &AllocOp{Buffer: h})
	}
	return h
}

// AddConstAllocation records an upload of constant data.
func (r *Recorder) AddConstAllocation(data *Array) Handle {
	if r.err != nil {
		return -1
	}
	if data == nil {
		r.fail(fmt.Errorf("%w: nil constant", ErrInvalidDesc))
		return -1
	}
	if err := data.CheckDesc(data.Desc); err != nil {
		r.fail(err)
		return -1
	}
	h := r.declare(Buffer{Name: fmt.Sprintf("_const%d", len(r.buffers)), Desc: data.Desc, Kind: KindConst, Data: data.Clone()})
	if h >= 0 {
		r.ops = append(r.ops, &ConstOp{Buffer: h})
	}
	return h
}

// AddKernel records a kernel invocation over globalSize work-items.
func (r *Recorder) AddKernel(k Kernel, outputs, inputs []Handle, globalSize int, deps []Dependency) {
	if r.err != nil {
		return
	}
	if globalSize < 0 {
		r.fail(fmt.Errorf("%w: global size %d", ErrInvalidDesc, globalSize))
		return
	}
	for _, d := range deps {
		if !r.valid(d.Dependent) || !r.valid(d.On) {
			r.fail(fmt.Errorf("%w: dependency %v", ErrUnknownHandle, d))
			return
		}
	}
	op := &KernelOp{
		Kernel:       k,
		Outputs:      append([]Handle(nil), outputs...),
		Inputs:       append([]Handle(nil), inputs...),
		GlobalSize:   globalSize,
		Dependencies: append([]Dependency(nil), deps...),
	}
	r.record(op)
}

// AddComputation records a nested computation writing out from in.
func (r *Recorder) AddComputation(c Computation, out Handle, in ...Handle) {
	if r.err != nil {
		return
	}
	descs := make([]ArrayDesc, len(in))
	for i, h := range in {
		if !r.valid(h) {
			r.fail(fmt.Errorf("%w: %d", ErrUnknownHandle, h))
			return
		}
		descs[i] = r.buffers[h].Desc
	}
	if !r.valid(out) {
		r.fail(fmt.Errorf("%w: %d", ErrUnknownHandle, out))
		return
	}
	want, err := c.Output(descs)
	if err != nil {
		r.fail(fmt.Errorf("%s into %s: %w", c.Kind(), r.buffers[out].Name, err))
		return
	}
	if got := r.buffers[out].Desc; !got.Equal(want) {
		r.fail(fmt.Errorf("%w: %s writes %v into %s %v", ErrShapeMismatch, c.Kind(), want, r.buffers[out].Name, got))
		return
	}
	r.record(&ComputationOp{Computation: c, Output: out, Inputs: append([]Handle(nil), in...)})
}

func (r *Recorder) valid(h Handle) bool {
	return h >= 0 && int(h) < len(r.buffers)
}

func (r *Recorder) record(op Op) {
	for _, h := range op.Reads() {
		if !r.valid(h) {
			r.fail(fmt.Errorf("%w: %d", ErrUnknownHandle, h))
			return
		}
		b := r.buffers[h]
		if (b.Kind == KindTemp || b.Kind == KindOutput) && !r.written[h] {
			r.fail(fmt.Errorf("%w: %s", ErrReadBeforeWrite, b.Name))
			return
		}
	}
	writes := op.Writes()
	for i, h := range writes {
		if !r.valid(h) {
			r.fail(fmt.Errorf("%w: %d", ErrUnknownHandle, h))
			return
		}
		b := r.buffers[h]
		if b.Kind == KindInput || b.Kind == KindConst {
			r.fail(fmt.Errorf("%w: %s", ErrReadOnly, b.Name))
			return
		}
		if r.written[h] {
			r.fail(fmt.Errorf("%w: %s", ErrMultipleWriters, b.Name))
			return
		}
		for _, o := range writes[:i] {
			if o == h {
				r.fail(fmt.Errorf("%w: %s", ErrMultipleWriters, b.Name))
				return
			}
		}
	}
	for _, h := range writes {
		r.written[h] = true
	}
	r.ops = append(r.ops, op)
}

// Finish validates that every output is written and returns the plan.
func (r *Recorder) Finish() (*Plan, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i, b := range r.buffers {
		if b.Kind == KindOutput && !r.written[i] {
			return nil, fmt.Errorf("%w: %s", ErrUnwrittenOutput, b.Name)
		}
	}
	return &Plan{
		name:    r.name,
		buffers: append([]Buffer(nil), r.buffers...),
		ops:     append([]Op(nil), r.ops...),
	}, nil
}
