package cbrng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"slices"

	imath "github.com/nozzle/kernelplan/internal/math"
	mt "github.com/nozzle/kernelplan/internal/rand"
	"github.com/nozzle/kernelplan/plan"
)

type seedKind uint8

const (
	seedEntropy seedKind = iota
	seedValue
	seedKey
)

// Seed selects how a key is derived. The zero Seed draws a fresh seed
// value from the operating system.
type Seed struct {
	kind  seedKind
	value uint32
	words []uint32
}

// SeedValue derives the key from an MT19937 stream seeded with v, so the
// same value always produces the same key.
func SeedValue(v uint32) Seed {
	return Seed{kind: seedValue, value: v}
}

// SeedKey uses words verbatim as the 32-bit key words.
func SeedKey(words ...uint32) Seed {
	return Seed{kind: seedKey, words: slices.Clone(words)}
}

// Entropy reports whether the seed is drawn from the operating system.
func (s Seed) Entropy() bool { return s.kind == seedEntropy }

func (s Seed) String() string {
	switch s.kind {
	case seedValue:
		return fmt.Sprintf("seed(%d)", s.value)
	case seedKey:
		return fmt.Sprintf("key(%#x)", s.words)
	}
	return "seed(entropy)"
}

// Key holds the native key words of a generator, zero-extended to uint64.
// The last word (the upper half of the only word for Philox-2x64) is
// reserved for the work-item id and is always zero in a derived key.
type Key []uint64

// KeyWords returns the number of 32-bit words a seed or explicit key
// supplies for p.
func (p Params) KeyWords() int {
	size := p.KeySize()
	switch {
	case p.Bitness == 32:
		return size - 1
	case size > 1:
		return (size - 1) * 2
	default:
		return 1
	}
}

// DeriveKey produces the base key for p from seed.
func DeriveKey(p Params, seed Seed) (Key, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.KeyWords()

	var words []uint32
	switch seed.kind {
	case seedKey:
		if len(seed.words) != n {
			return nil, &InvalidKeyError{Want: n, Got: len(seed.words)}
		}
		words = seed.words
	case seedValue:
		words = seedWords(seed.value, n)
	default:
		v, err := entropy()
		if err != nil {
			return nil, err
		}
		words = seedWords(v, n)
	}

	key := make(Key, p.KeySize())
	switch {
	case p.Bitness == 32:
		for i, w := range words {
			key[i] = uint64(w)
		}
	case p.Algorithm == Philox && p.Words == 2:
		key[0] = uint64(words[0])
	default:
		for i := 0; i < len(words)/2; i++ {
			key[i] = uint64(words[2*i])<<32 | uint64(words[2*i+1])
		}
	}
	return key, nil
}

// seedWords draws 2n 16-bit values from MT19937 and packs consecutive
// pairs into 32-bit words, the first value of a pair in the upper half.
func seedWords(seed uint32, n int) []uint32 {
	vals := mt.NewMT19937(seed).RandInt(0, 1<<16, 2*n)
	words := make([]uint32, n)
	for i := range words {
		words[i] = vals[2*i]<<16 | vals[2*i+1]
	}
	return words
}

func entropy() (uint32, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("cbrng: reading seed entropy: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// WithThread returns a copy of the key with the work-item id in its
// reserved slot. Ids wider than the slot wrap.
func (k Key) WithThread(p Params, id uint64) Key {
	out := slices.Clone(k)
	if p.Algorithm == Philox && p.Words == 2 && p.Bitness == 64 {
		out[0] = out[0]&imath.Mask(32) | id<<32
		return out
	}
	out[len(out)-1] = id & imath.Mask(p.Bitness)
	return out
}

// CounterShape returns the counter array shape for a spatial shape.
func CounterShape(p Params, spatial ...int) []int {
	return append(slices.Clone(spatial), p.Words)
}

// CounterDesc describes the counter array for a spatial shape.
func CounterDesc(p Params, spatial ...int) plan.ArrayDesc {
	return plan.Desc(p.CounterDType(), CounterShape(p, spatial...)...)
}

// NewCounters returns a zeroed counter array for a spatial shape.
func NewCounters(p Params, spatial ...int) (*plan.Array, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return plan.NewArray(CounterDesc(p, spatial...)), nil
}

// increment adds one to a little-endian multi-word counter of the given
// word width.
func increment(ctr []uint64, mask uint64) {
	for i := range ctr {
		ctr[i] = (ctr[i] + 1) & mask
		if ctr[i] != 0 {
			return
		}
	}
}
