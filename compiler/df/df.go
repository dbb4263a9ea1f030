package df

import (
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/warplang/warp/compiler/cfg"
	"github.com/warplang/warp/compiler/set"
)

type (
	// worklist is a fifo of block indices with cheap membership,
	// pushing a queued index is a no-op.
	worklist struct {
		q  []int
		in set.Bitmap
	}
)

// Forward solves a forward dataflow problem over g to a fixed point.
// transfer recomputes the out state of one block from its in state
// and reports whether out changed. join folds a finished out state
// into a successor in state. States live in the caller's slices, one
// pair per block. Termination is on the caller: transfer and join
// must be monotonic.
func Forward[N, S any](
	g *cfg.CFG[N],
	blockIn, blockOut []S,
	transfer func(i int, b *N, out, in *S) bool,
	join func(dst, src *S),
) {
	n := g.Len()

	if len(blockIn) != n || len(blockOut) != n {
		panic("df: state slices do not match the graph")
	}

	var w worklist

	for i := 0; i < n; i++ {
		transfer(i, g.Block(i), &blockOut[i], &blockIn[i])

		for _, s := range g.Succs(i) {
			join(&blockIn[s], &blockOut[i])

			if s <= i {
				w.push(s)
			}
		}
	}

	for {
		i, ok := w.pop()
		if !ok {
			break
		}

		if !transfer(i, g.Block(i), &blockOut[i], &blockIn[i]) {
			continue
		}

		for _, s := range g.Succs(i) {
			join(&blockIn[s], &blockOut[i])
			w.push(s)
		}
	}
}

// Backward is the mirror of Forward. transfer recomputes the in
// state of one block from its out state, join folds a finished in
// state into a predecessor out state. The initial sweep runs in
// reverse index order.
func Backward[N, S any](
	g *cfg.CFG[N],
	blockIn, blockOut []S,
	transfer func(i int, b *N, in, out *S) bool,
	join func(dst, src *S),
) {
	n := g.Len()

	if len(blockIn) != n || len(blockOut) != n {
		panic("df: state slices do not match the graph")
	}

	var w worklist

	for i := n - 1; i >= 0; i-- {
		transfer(i, g.Block(i), &blockIn[i], &blockOut[i])

		for _, p := range g.Preds(i) {
			join(&blockOut[p], &blockIn[i])

			if p >= i {
				w.push(p)
			}
		}
	}

	for {
		i, ok := w.pop()
		if !ok {
			break
		}

		if !transfer(i, g.Block(i), &blockIn[i], &blockOut[i]) {
			continue
		}

		for _, p := range g.Preds(i) {
			join(&blockOut[p], &blockIn[i])
			w.push(p)
		}
	}
}

func (w *worklist) push(i int) {
	if !w.in.Set(i) {
		return
	}

	w.q = append(w.q, i)

	tlog.V("df_push").Printw("block pushed", "block", i, "from", loc.Caller(1))
}

func (w *worklist) pop() (int, bool) {
	if len(w.q) == 0 {
		return 0, false
	}

	i := w.q[0]
	w.q = w.q[1:]

	w.in.Clear(i)

	return i, true
}
