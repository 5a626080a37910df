package cbrng

// blockFunc encrypts ctr under key into out. All slices hold native words
// zero-extended to uint64.
type blockFunc func(ctr, key, out []uint64)

// Block applies the bijection selected by p to a single counter. ctr must
// hold p.Words words and key p.KeySize() words.
func (p Params) Block(ctr, key []uint64) ([]uint64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(ctr) != p.Words {
		return nil, &UnsupportedConfigError{Params: p, Reason: "counter length does not match words"}
	}
	if len(key) != p.KeySize() {
		return nil, &InvalidKeyError{Want: p.KeySize(), Got: len(key)}
	}
	out := make([]uint64, p.Words)
	p.blockFunc()(ctr, key, out)
	return out, nil
}

// blockFunc returns the bijection for validated parameters.
func (p Params) blockFunc() blockFunc {
	rounds := p.rounds()
	switch {
	case p.Algorithm == Philox && p.Bitness == 32 && p.Words == 2:
		return func(c, k, out []uint64) {
			r := Philox2x32([2]uint32{uint32(c[0]), uint32(c[1])}, [1]uint32{uint32(k[0])}, rounds)
			out[0], out[1] = uint64(r[0]), uint64(r[1])
		}
	case p.Algorithm == Philox && p.Bitness == 32:
		return func(c, k, out []uint64) {
			r := Philox4x32(
				[4]uint32{uint32(c[0]), uint32(c[1]), uint32(c[2]), uint32(c[3])},
				[2]uint32{uint32(k[0]), uint32(k[1])}, rounds)
			for i, w := range r {
				out[i] = uint64(w)
			}
		}
	case p.Algorithm == Philox && p.Words == 2:
		return func(c, k, out []uint64) {
			r := Philox2x64([2]uint64{c[0], c[1]}, [1]uint64{k[0]}, rounds)
			copy(out, r[:])
		}
	case p.Algorithm == Philox:
		return func(c, k, out []uint64) {
			r := Philox4x64([4]uint64{c[0], c[1], c[2], c[3]}, [2]uint64{k[0], k[1]}, rounds)
			copy(out, r[:])
		}
	case p.Bitness == 32 && p.Words == 2:
		return func(c, k, out []uint64) {
			r := Threefry2x32([2]uint32{uint32(c[0]), uint32(c[1])}, [2]uint32{uint32(k[0]), uint32(k[1])}, rounds)
			out[0], out[1] = uint64(r[0]), uint64(r[1])
		}
	case p.Bitness == 32:
		return func(c, k, out []uint64) {
			r := Threefry4x32(
				[4]uint32{uint32(c[0]), uint32(c[1]), uint32(c[2]), uint32(c[3])},
				[4]uint32{uint32(k[0]), uint32(k[1]), uint32(k[2]), uint32(k[3])}, rounds)
			for i, w := range r {
				out[i] = uint64(w)
			}
		}
	case p.Words == 2:
		return func(c, k, out []uint64) {
			r := Threefry2x64([2]uint64{c[0], c[1]}, [2]uint64{k[0], k[1]}, rounds)
			copy(out, r[:])
		}
	default:
		return func(c, k, out []uint64) {
			r := Threefry4x64([4]uint64{c[0], c[1], c[2], c[3]}, [4]uint64{k[0], k[1], k[2], k[3]}, rounds)
			copy(out, r[:])
		}
	}
}
