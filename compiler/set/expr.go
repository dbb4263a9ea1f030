package set

type (
	// Expr is a set algebra expression evaluated lazily word at a time.
	// Beyond its declared word length an expression reads as zero.
	// A *Bits is an Expr of itself.
	Expr interface {
		words() int
		word(i int) uint32
	}

	binop struct {
		op   int
		x, y Expr
	}
)

const (
	opOr = iota
	opAnd
	opXor
	opAndNot
)

func Or(x, y Expr) Expr     { return binop{op: opOr, x: x, y: y} }
func And(x, y Expr) Expr    { return binop{op: opAnd, x: x, y: y} }
func Xor(x, y Expr) Expr    { return binop{op: opXor, x: x, y: y} }
func AndNot(x, y Expr) Expr { return binop{op: opAndNot, x: x, y: y} }

func (e binop) words() int {
	switch e.op {
	case opOr, opXor:
		return max(e.x.words(), e.y.words())
	case opAnd:
		return min(e.x.words(), e.y.words())
	case opAndNot:
		return e.x.words()
	default:
		panic(e.op)
	}
}

func (e binop) word(i int) uint32 {
	x, y := e.x.word(i), e.y.word(i)

	switch e.op {
	case opOr:
		return x | y
	case opAnd:
		return x & y
	case opXor:
		return x ^ y
	case opAndNot:
		return x &^ y
	default:
		panic(e.op)
	}
}

func (s *Bits[K]) words() int { return len(s.b) }

func (s *Bits[K]) word(i int) uint32 {
	if i >= len(s.b) {
		return 0
	}

	return s.b[i]
}

// Assign replaces the set with e, resizing the backing store
// to exactly the expression length.
func (s *Bits[K]) Assign(e Expr) {
	n := e.words()

	s.grow(n - 1)

	for i := range s.b {
		if i < n {
			s.b[i] = e.word(i)
		} else {
			s.b[i] = 0
		}
	}

	s.b = s.b[:n]
}

// Or adds the bits of e and reports whether any bit was missing.
// The set grows to the expression length.
func (s *Bits[K]) Or(e Expr) (changed bool) {
	n := e.words()

	s.grow(n - 1)

	for i := range s.b {
		w := s.b[i] | e.word(i)

		changed = changed || w != s.b[i]
		s.b[i] = w
	}

	return changed
}

// And drops the bits not in e. The set does not grow,
// its words past the expression length are zeroed.
func (s *Bits[K]) And(e Expr) {
	for i := range s.b {
		s.b[i] &= e.word(i)
	}
}

// Xor flips the bits of e. The set grows to the expression length.
func (s *Bits[K]) Xor(e Expr) {
	n := e.words()

	s.grow(n - 1)

	for i := range s.b {
		s.b[i] ^= e.word(i)
	}
}

// AndNot drops the bits of e. The set does not grow,
// its words past the expression length are kept.
func (s *Bits[K]) AndNot(e Expr) {
	for i := range s.b {
		s.b[i] &^= e.word(i)
	}
}
