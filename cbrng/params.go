package cbrng

import (
	"fmt"

	"github.com/nozzle/kernelplan/plan"
)

// Algorithm selects the block bijection.
type Algorithm uint8

const (
	Philox Algorithm = iota
	Threefry
)

func (a Algorithm) String() string {
	switch a {
	case Philox:
		return "philox"
	case Threefry:
		return "threefry"
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// ParseAlgorithm maps "philox" or "threefry" to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "philox":
		return Philox, nil
	case "threefry":
		return Threefry, nil
	}
	return 0, fmt.Errorf("%w: unknown algorithm %q", ErrUnsupportedConfig, name)
}

// DefaultRounds returns the round count that qualifies the algorithm as a
// crush-resistant generator.
func (a Algorithm) DefaultRounds() int {
	switch a {
	case Philox:
		return 10
	case Threefry:
		return 20
	}
	return 0
}

// Params describes a counter-based generator. The period of a stream is
// 2^(Bitness*Words).
type Params struct {
	// Algorithm is Philox or Threefry.
	// Default: Philox
	Algorithm Algorithm

	// Bitness is the width of one counter word, 32 or 64.
	// Default: 64
	Bitness int

	// Words is the number of counter words, 2 or 4.
	// Default: 4
	Words int

	// Rounds is the number of bijection rounds; 0 selects the algorithm default.
	// Default: 10 for Philox, 20 for Threefry
	Rounds int
}

// DefaultParams returns the default parameters for an algorithm.
func DefaultParams(a Algorithm) Params {
	return Params{
		Algorithm: a,
		Bitness:   64,
		Words:     4,
		Rounds:    a.DefaultRounds(),
	}
}

func (p Params) String() string {
	return fmt.Sprintf("%s-%dx%d-%d", p.Algorithm, p.Words, p.Bitness, p.rounds())
}

func (p Params) rounds() int {
	if p.Rounds == 0 {
		return p.Algorithm.DefaultRounds()
	}
	return p.Rounds
}

// Normalize fills in the default round count.
func (p Params) Normalize() Params {
	p.Rounds = p.rounds()
	return p
}

// Validate checks that the parameters name a supported generator.
func (p Params) Validate() error {
	fail := func(reason string) error {
		return &UnsupportedConfigError{Params: p, Reason: reason}
	}
	if p.Algorithm != Philox && p.Algorithm != Threefry {
		return fail("unknown algorithm")
	}
	if p.Bitness != 32 && p.Bitness != 64 {
		return fail("bitness must be 32 or 64")
	}
	if p.Words != 2 && p.Words != 4 {
		return fail("words must be 2 or 4")
	}
	if p.Rounds < 0 {
		return fail("rounds must be positive")
	}
	if p.Algorithm == Philox && p.Words == 2 && p.Bitness == 32 {
		return fail("philox-2x32 leaves no room in the key for the work-item id")
	}
	return nil
}

// KeySize returns the number of native key words.
func (p Params) KeySize() int {
	if p.Algorithm == Philox {
		return p.Words / 2
	}
	return p.Words
}

// CounterDType returns the dtype of counter arrays.
func (p Params) CounterDType() plan.DType {
	if p.Bitness == 32 {
		return plan.Uint32
	}
	return plan.Uint64
}
