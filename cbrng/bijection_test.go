package cbrng

import "testing"

// Known-answer vectors from the Random123 distribution.
func TestPhiloxKnownAnswers(t *testing.T) {
	if got, want := Philox2x32([2]uint32{}, [1]uint32{}, 10), [2]uint32{0xff1dae59, 0x6cd10df2}; got != want {
		t.Errorf("philox2x32_10(0): got %#x, expected %#x", got, want)
	}
	if got, want := Philox4x32([4]uint32{}, [2]uint32{}, 10), [4]uint32{0x6627e8d5, 0xe169c58d, 0xbc57ac4c, 0x9b00dbd8}; got != want {
		t.Errorf("philox4x32_10(0): got %#x, expected %#x", got, want)
	}
	got := Philox4x32(
		[4]uint32{0x243f6a88, 0x85a308d3, 0x13198a2e, 0x03707344},
		[2]uint32{0xa4093822, 0x299f31d0}, 10)
	if want := [4]uint32{0xd16cfe09, 0x94fdcceb, 0x5001e420, 0x24126ea1}; got != want {
		t.Errorf("philox4x32_10(pi): got %#x, expected %#x", got, want)
	}
	if got, want := Philox2x64([2]uint64{}, [1]uint64{}, 10), [2]uint64{0xca00a0459843d731, 0x66c24222c9a845b5}; got != want {
		t.Errorf("philox2x64_10(0): got %#x, expected %#x", got, want)
	}
	want64 := [4]uint64{0x16554d9eca36314c, 0xdb20fe9d672d0fdc, 0xd7e772cee186176b, 0x7e68b68aec7ba23b}
	if got := Philox4x64([4]uint64{}, [2]uint64{}, 10); got != want64 {
		t.Errorf("philox4x64_10(0): got %#x, expected %#x", got, want64)
	}
}

func TestThreefryKnownAnswers(t *testing.T) {
	if got, want := Threefry2x32([2]uint32{}, [2]uint32{}, 20), [2]uint32{0x6b200159, 0x99ba4efe}; got != want {
		t.Errorf("threefry2x32_20(0): got %#x, expected %#x", got, want)
	}
	ones := [2]uint32{0xffffffff, 0xffffffff}
	if got, want := Threefry2x32(ones, ones, 20), [2]uint32{0x1cb996fc, 0xbb002be7}; got != want {
		t.Errorf("threefry2x32_20(-1): got %#x, expected %#x", got, want)
	}
	got := Threefry2x32([2]uint32{0x243f6a88, 0x85a308d3}, [2]uint32{0x13198a2e, 0x03707344}, 20)
	if want := [2]uint32{0xc4923a9c, 0x483df7a0}; got != want {
		t.Errorf("threefry2x32_20(pi): got %#x, expected %#x", got, want)
	}
	if got, want := Threefry4x32([4]uint32{}, [4]uint32{}, 20), [4]uint32{0x9c6ca96a, 0xe17eae66, 0xfc10ecd4, 0x5256a7d8}; got != want {
		t.Errorf("threefry4x32_20(0): got %#x, expected %#x", got, want)
	}
	if got, want := Threefry2x64([2]uint64{}, [2]uint64{}, 20), [2]uint64{0xc2b6e3a8c2c69865, 0x6f81ed42f350084d}; got != want {
		t.Errorf("threefry2x64_20(0): got %#x, expected %#x", got, want)
	}
	want64 := [4]uint64{0x09218ebde6c85537, 0x55941f5266d86105, 0x4bd25e16282434dc, 0xee29ec846bd2e40b}
	if got := Threefry4x64([4]uint64{}, [4]uint64{}, 20); got != want64 {
		t.Errorf("threefry4x64_20(0): got %#x, expected %#x", got, want64)
	}
}

func TestBlockDispatch(t *testing.T) {
	tests := []struct {
		params Params
		want   []uint64
	}{
		{Params{Algorithm: Philox, Bitness: 32, Words: 4, Rounds: 10}, []uint64{0x6627e8d5, 0xe169c58d, 0xbc57ac4c, 0x9b00dbd8}},
		{Params{Algorithm: Philox, Bitness: 64, Words: 2}, []uint64{0xca00a0459843d731, 0x66c24222c9a845b5}},
		{DefaultParams(Philox), []uint64{0x16554d9eca36314c, 0xdb20fe9d672d0fdc, 0xd7e772cee186176b, 0x7e68b68aec7ba23b}},
		{Params{Algorithm: Threefry, Bitness: 32, Words: 2}, []uint64{0x6b200159, 0x99ba4efe}},
		{Params{Algorithm: Threefry, Bitness: 32, Words: 4}, []uint64{0x9c6ca96a, 0xe17eae66, 0xfc10ecd4, 0x5256a7d8}},
		{Params{Algorithm: Threefry, Bitness: 64, Words: 2}, []uint64{0xc2b6e3a8c2c69865, 0x6f81ed42f350084d}},
		{DefaultParams(Threefry), []uint64{0x09218ebde6c85537, 0x55941f5266d86105, 0x4bd25e16282434dc, 0xee29ec846bd2e40b}},
	}
	for _, tt := range tests {
		got, err := tt.params.Block(make([]uint64, tt.params.Words), make([]uint64, tt.params.KeySize()))
		if err != nil {
			t.Fatalf("%v: %v", tt.params, err)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%v word %d: got %#x, expected %#x", tt.params, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRoundsChangeOutput(t *testing.T) {
	a := Threefry2x64([2]uint64{1, 2}, [2]uint64{3, 4}, 13)
	b := Threefry2x64([2]uint64{1, 2}, [2]uint64{3, 4}, 20)
	if a == b {
		t.Errorf("13 and 20 rounds produced the same block %#x", a)
	}
	if got := Philox2x64([2]uint64{5, 6}, [1]uint64{7}, 0); got != [2]uint64{5, 6} {
		t.Errorf("zero rounds should be the identity, got %#x", got)
	}
}

func TestIncrementCarries(t *testing.T) {
	ctr := []uint64{0xffffffff, 0xffffffff, 3, 0}
	increment(ctr, 0xffffffff)
	if want := []uint64{0, 0, 4, 0}; ctr[0] != want[0] || ctr[1] != want[1] || ctr[2] != want[2] {
		t.Errorf("got %#x, expected %#x", ctr, want)
	}
	ctr = []uint64{^uint64(0), ^uint64(0)}
	increment(ctr, ^uint64(0))
	if ctr[0] != 0 || ctr[1] != 0 {
		t.Errorf("wraparound: got %#x", ctr)
	}
}
