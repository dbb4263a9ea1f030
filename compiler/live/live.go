package live

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/warplang/warp/compiler/cfg"
	"github.com/warplang/warp/compiler/df"
	"github.com/warplang/warp/compiler/set"
)

type (
	// Value identifies a value in the program. Values are dense small ints
	// so live sets are cheap bitmaps.
	Value int

	// Block is what liveness needs to know about a basic block.
	Block interface {
		Defs() []Value
		Uses() []Value
	}

	// Info holds per block live sets.
	Info struct {
		in, out []set.Bits[Value]
	}
)

// Compute solves liveness over the graph.
// A value is live into a block if the block uses it before any def,
// or if it flows through to a successor that needs it.
func Compute[B Block](ctx context.Context, g *cfg.CFG[B]) *Info {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "liveness", "blocks", g.Len())
	defer tr.Finish()

	def := make([]set.Bits[Value], g.Len())
	use := make([]set.Bits[Value], g.Len())

	g.Range(func(i int, b *B) bool {
		for _, v := range (*b).Defs() {
			def[i].Set(v)
		}

		for _, v := range (*b).Uses() {
			use[i].Set(v)
		}

		return true
	})

	lv := &Info{
		in:  make([]set.Bits[Value], g.Len()),
		out: make([]set.Bits[Value], g.Len()),
	}

	df.Backward(g, lv.in, lv.out,
		func(i int, b *B, in, out *set.Bits[Value]) bool {
			return in.Or(set.Or(&use[i], set.AndNot(out, &def[i])))
		},
		func(dst, src *set.Bits[Value]) {
			dst.Or(src)
		})

	if tr.If("live") {
		for i := 0; i < g.Len(); i++ {
			tr.Printw("live", "block", i, "in", &lv.in[i], "out", &lv.out[i])
		}
	}

	return lv
}

// In is the set of values live on entry to the block.
func (lv *Info) In(block int) *set.Bits[Value] { return &lv.in[block] }

// Out is the set of values live on exit from the block.
func (lv *Info) Out(block int) *set.Bits[Value] { return &lv.out[block] }

// MaxLive is the widest live set over all block boundaries.
// It bounds how many values must coexist at once.
func (lv *Info) MaxLive() (m int) {
	for i := range lv.in {
		m = max(m, lv.in[i].Size(), lv.out[i].Size())
	}

	return m
}
