package plan

import "fmt"

// Perm is an axis permutation. Applying p to a sequence s yields
// r[i] = s[p[i]], the same convention as numpy's transpose(axes).
type Perm []int

// Identity returns the identity permutation of n axes.
func Identity(n int) Perm {
	p := make(Perm, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// MoveToEnd returns the permutation of n axes that moves the axis at
// position pos to the end and keeps the others in order.
func MoveToEnd(n, pos int) Perm {
	r := make(Perm, 0, n)
	for i := 0; i < n; i++ {
		if i != pos {
			r = append(r, i)
		}
	}
	return append(r, pos)
}

// Validate checks that p is a bijection of 0..len(p)-1.
func (p Perm) Validate() error {
	seen := make([]bool, len(p))
	for _, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return fmt.Errorf("%w: %v", ErrInvalidPerm, []int(p))
		}
		seen[v] = true
	}
	return nil
}

// IsIdentity reports whether p leaves every axis in place.
func (p Perm) IsIdentity() bool {
	for i, v := range p {
		if v != i {
			return false
		}
	}
	return true
}

// IndexOf returns the position holding axis v, or -1.
func (p Perm) IndexOf(v int) int {
	for i, x := range p {
		if x == v {
			return i
		}
	}
	return -1
}

// MoveToEnd returns p with the entry at pos moved to the end.
func (p Perm) MoveToEnd(pos int) Perm {
	return Permute(MoveToEnd(len(p), pos), p)
}

// Compose returns the permutation equivalent to applying q and then p:
// Permute(p.Compose(q), s) == Permute(p, Permute(q, s)).
func (p Perm) Compose(q Perm) Perm {
	r := make(Perm, len(p))
	for i, v := range p {
		r[i] = q[v]
	}
	return r
}

// Inverse returns the permutation undoing p.
func (p Perm) Inverse() Perm {
	r := make(Perm, len(p))
	for i, v := range p {
		r[v] = i
	}
	return r
}

// Permute applies p to seq, returning a new slice.
func Permute[T any](p Perm, seq []T) []T {
	r := make([]T, len(p))
	for i, v := range p {
		r[i] = seq[v]
	}
	return r
}
