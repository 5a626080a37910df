package rand_test

import (
	"testing"

	"github.com/nozzle/kernelplan/internal/rand"
)

func TestMT19937VsNumpy(t *testing.T) {
	mt := rand.NewMT19937(42)

	// numpy.random.RandomState(42).uniform(-10, 10, 10)
	expected := []float64{
		-2.509197623052750,
		9.014286128198323,
		4.639878836228101,
		1.973169683940732,
		-6.879627191151270,
		-6.880109593275947,
		-8.838327756636010,
		7.323522915498703,
		2.022300234864176,
		4.161451555920910,
	}

	for i, exp := range expected {
		got := mt.Uniform(-10.0, 10.0)
		diff := got - exp
		if diff < 0 {
			diff = -diff
		}
		if diff > 1e-9 {
			t.Errorf("Value %d: got %.15f, expected %.15f, diff %.2e", i, got, exp, diff)
		}
	}
}

func TestRandIntVsNumpy(t *testing.T) {
	// numpy.random.RandomState(42).randint(0, 10, 10)
	expected := []uint32{6, 3, 7, 4, 6, 9, 2, 6, 7, 4}

	got := rand.NewMT19937(42).RandInt(0, 10, len(expected))
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("randint[%d]: got %d, expected %d", i, got[i], expected[i])
		}
	}
}

func TestRandInt16BitRangeIsMasked(t *testing.T) {
	// With a power-of-two range no draw is rejected, so every value is
	// the low half of the raw output.
	a := rand.NewMT19937(7)
	b := rand.NewMT19937(7)
	vals := a.RandInt(0, 1<<16, 32)
	for i, v := range vals {
		want := b.Uint32() & 0xFFFF
		if v != want {
			t.Errorf("draw %d: got %d, expected %d", i, v, want)
		}
	}
}

func TestMT19937SeedResets(t *testing.T) {
	mt := rand.NewMT19937(1)
	first := mt.Uint32()
	for range 1000 {
		mt.Uint32()
	}
	mt.Seed(1)
	if got := mt.Uint32(); got != first {
		t.Errorf("after reseed got %d, expected %d", got, first)
	}
}
