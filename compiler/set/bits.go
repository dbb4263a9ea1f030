package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Key is an integer kind usable as a set member. Conversion to int
	// and back must be lossless, keys must be non negative.
	Key interface {
		~int | ~int32 | ~int64
	}

	// Bits is a growable set of keys packed into 32-bit words.
	// The zero value is an empty set ready to use.
	// The backing store only grows, it is never shrunk implicitly.
	Bits[K Key] struct {
		b []uint32
	}

	// Bitmap is an untyped Bits.
	Bitmap = Bits[int]
)

// Set adds k and reports whether it was missing.
func (s *Bits[K]) Set(k K) bool {
	i, j := ij(k)

	s.grow(i)

	was := s.b[i]&(1<<j) != 0
	s.b[i] |= 1 << j

	return !was
}

// Clear removes k and reports whether it was there.
// It grows the backing store just as Set does,
// so growth does not depend on bit values.
func (s *Bits[K]) Clear(k K) bool {
	i, j := ij(k)

	s.grow(i)

	was := s.b[i]&(1<<j) != 0
	s.b[i] &^= 1 << j

	return was
}

func (s Bits[K]) IsSet(k K) bool {
	i, j := ij(k)

	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

func (s Bits[K]) Empty() bool {
	for _, w := range s.b {
		if w != 0 {
			return false
		}
	}

	return true
}

// Reserve grows the backing store so that keys below n
// can be set without allocation.
func (s *Bits[K]) Reserve(n K) {
	if n <= 0 {
		return
	}

	i, _ := ij(n - 1)

	s.grow(i)
}

func (s *Bits[K]) SetAll(k ...K) {
	for _, k := range k {
		s.Set(k)
	}
}

func (s Bits[K]) Size() (r int) {
	for _, w := range s.b {
		r += bits.OnesCount32(w)
	}

	return r
}

// Reset clears all the bits keeping the backing store.
func (s Bits[K]) Reset() {
	for i := range s.b {
		s.b[i] = 0
	}
}

func (s Bits[K]) Range(f func(k K) bool) {
	for i, w := range s.b {
		for w != 0 {
			j := bits.TrailingZeros32(w)
			w &= w - 1

			if !f(K(i*32 + j)) {
				return
			}
		}
	}
}

func (s Bits[K]) First() K {
	for i, w := range s.b {
		if w == 0 {
			continue
		}

		return K(i*32 + bits.TrailingZeros32(w))
	}

	return -1
}

// Slice returns the members in ascending order, nil if none.
func (s Bits[K]) Slice() (r []K) {
	s.Range(func(k K) bool {
		r = append(r, k)

		return true
	})

	return r
}

func (s Bits[K]) Copy() Bits[K] {
	var r Bits[K]

	r.b = append(r.b, s.b...)

	return r
}

// NextClear returns the lowest unset key at or after from.
// Past the backing store everything counts as unset,
// so there from itself is returned.
func (s Bits[K]) NextClear(from K) K {
	i, j := ij(from)

	if i >= len(s.b) {
		return from
	}

	w := s.b[i] | (1<<j - 1)

	for {
		if w != ^uint32(0) {
			return K(i*32 + bits.TrailingZeros32(^w))
		}

		i++

		if i >= len(s.b) {
			return K(i * 32)
		}

		w = s.b[i]
	}
}

// FindClearRange returns the lowest base at or after from such that
// alignMul divides base-alignOffset and count bits at base are clear.
// count must fit the alignment chunk, so a window never crosses a word
// boundary and whole words are checked at once: within the candidate
// windows of the inverted word an added periodic bit carries out past
// the window top iff the window is all clear.
func (s Bits[K]) FindClearRange(from, count, alignMul, alignOffset K) K {
	if count < 1 {
		panic("set: empty range")
	}
	if alignMul < 1 || alignMul > 16 || alignMul&(alignMul-1) != 0 {
		panic("set: bad alignment")
	}
	if alignOffset+count > alignMul {
		panic("set: range does not fit alignment")
	}

	var field, ones, tops uint64

	for o := int(alignOffset); o < 32; o += int(alignMul) {
		field |= (1<<int(count) - 1) << o
		ones |= 1 << o
		tops |= 1 << (o + int(count))
	}

	i0, j0 := ij(from)

	for i := i0; ; i++ {
		var w uint32

		if i < len(s.b) {
			w = s.b[i]
		}

		if i == i0 {
			w |= 1<<j0 - 1
		}

		x := uint64(^w) & field
		t := x + ones

		hits := (t ^ x ^ ones) & tops
		if hits != 0 {
			return K(i*32 + bits.TrailingZeros64(hits) - int(count))
		}
	}
}

func (s *Bits[K]) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(k K) bool {
		b = e.AppendInt(b, int(k))

		return true
	})

	b = e.AppendBreak(b)

	return b
}

func ij[K Key](k K) (i, j int) {
	i, j = int(k)/32, int(k)%32

	return i, j
}

func (s *Bits[K]) grow(i int) {
	for i >= cap(s.b) {
		s.b = append(s.b[:cap(s.b)], 0)
	}

	s.b = s.b[:cap(s.b)]
}
