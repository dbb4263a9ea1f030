package cfg

import (
	"math"

	"github.com/warplang/warp/compiler/set"
)

type (
	node[N any] struct {
		block N

		dom     int
		domPre  int
		domPost int
		lph     int

		preds []int
		succs []int
	}

	// CFG is a control flow graph over payload blocks N.
	// Node indices are a dense reverse post order with the entry at 0.
	// Blocks unreachable from the entry are dropped at construction.
	CFG[N any] struct {
		nodes   []node[N]
		hasLoop bool
	}

	rpoWalk[N any] struct {
		g     *CFG[N]
		post  []int
		count int
	}

	loopScan[N any] struct {
		g       *CFG[N]
		pre     set.Bitmap
		post    set.Bitmap
		retreat [][2]int
	}
)

const none = -1

// New builds a CFG from payloads and pred-succ index pairs.
// The first block is the entry.
func New[N any](blocks []N, edges [][2]int) *CFG[N] {
	g := &CFG[N]{
		nodes: make([]node[N], len(blocks)),
	}

	for i, b := range blocks {
		g.nodes[i] = node[N]{
			block:  b,
			dom:    none,
			domPre: math.MaxInt,
			lph:    none,
		}
	}

	if len(blocks) == 0 {
		return g
	}

	for _, e := range edges {
		p, s := e[0], e[1]

		g.nodes[p].succs = append(g.nodes[p].succs, s)
		g.nodes[s].preds = append(g.nodes[s].preds, p)
	}

	g.sortRPO()
	g.buildDoms()
	g.hasLoop = g.findLoops()

	return g
}

// sortRPO renumbers the reachable nodes into reverse post order
// and drops the rest. Successors are walked in reverse list order
// to keep the numbering canonical.
func (g *CFG[N]) sortRPO() {
	w := &rpoWalk[N]{
		g:    g,
		post: make([]int, len(g.nodes)),
	}

	for i := range w.post {
		w.post[i] = none
	}

	DepthFirst(0, w)

	idx := w.post // old index -> new index

	for i, p := range w.post {
		if p != none {
			idx[i] = w.count - 1 - p
		}
	}

	if idx[0] != 0 {
		panic("cfg: entry not at index 0")
	}

	nodes := make([]node[N], w.count)

	for i, ni := range idx {
		if ni == none {
			continue
		}

		nd := g.nodes[i]

		nd.preds = renumber(nd.preds, idx)
		nd.succs = renumber(nd.succs, idx)

		nodes[ni] = nd
	}

	g.nodes = nodes
}

func renumber(l, idx []int) []int {
	r := l[:0]

	for _, x := range l {
		if idx[x] != none {
			r = append(r, idx[x])
		}
	}

	return r
}

func (w *rpoWalk[N]) Pre(i int) []int {
	s := w.g.nodes[i].succs
	r := make([]int, len(s))

	for j, x := range s {
		r[len(s)-1-j] = x
	}

	return r
}

func (w *rpoWalk[N]) Edge(from, to int) {}

func (w *rpoWalk[N]) Post(i int) {
	w.post[i] = w.count
	w.count++
}

// buildDoms computes immediate dominators by iterated intersection
// in rpo order, then numbers the dominator tree.
func (g *CFG[N]) buildDoms() {
	n := len(g.nodes)

	g.nodes[0].dom = 0

	for changed := true; changed; {
		changed = false

		for i := 1; i < n; i++ {
			d := none

			for _, p := range g.nodes[i].preds {
				if g.nodes[p].dom == none {
					continue
				}

				if d == none {
					d = p
				} else {
					d = g.intersect(d, p)
				}
			}

			if d != none && d != g.nodes[i].dom {
				g.nodes[i].dom = d
				changed = true
			}
		}
	}

	children := make([][]int, n)

	for i := 1; i < n; i++ {
		d := g.nodes[i].dom
		children[d] = append(children[d], i)
	}

	pre, post := 0, 0

	var walk func(i int)
	walk = func(i int) {
		g.nodes[i].domPre = pre
		pre++

		for _, c := range children[i] {
			walk(c)
		}

		g.nodes[i].domPost = post
		post++
	}

	walk(0)

	if pre != n || post != n {
		panic("cfg: dom numbering out of sync")
	}
}

// intersect finds the common dominator of two nodes walking
// the higher index down the dominator links.
func (g *CFG[N]) intersect(a, b int) int {
	for a != b {
		for a > b {
			a = g.nodes[a].dom
		}
		for b > a {
			b = g.nodes[b].dom
		}
	}

	return a
}

// findLoops marks natural loop headers and loop membership.
// A second walk in original successor order finds retreating edges,
// the ones closed by a dominator are back edges. Loop bodies are
// collected backwards from the back edge sources, outer loops first
// so nested assignments win.
func (g *CFG[N]) findLoops() bool {
	w := &loopScan[N]{g: g}

	DepthFirst(0, w)

	headers := false

	for _, e := range w.retreat {
		if g.Dominates(e[1], e[0]) {
			g.nodes[e[1]].lph = e[1]
			headers = true
		}
	}

	if !headers {
		return false
	}

	for h := range g.nodes {
		if g.nodes[h].lph == h {
			g.markBody(h, w.retreat)
		}
	}

	return true
}

func (g *CFG[N]) markBody(h int, retreat [][2]int) {
	var stack []int
	var seen set.Bitmap

	for _, e := range retreat {
		if e[1] == h && g.Dominates(h, e[0]) {
			stack = append(stack, e[0])
		}
	}

	seen.Set(h)

	for len(stack) != 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !seen.Set(i) {
			continue
		}

		if g.nodes[i].lph != i { // keep nested headers
			g.nodes[i].lph = h
		}

		stack = append(stack, g.nodes[i].preds...)
	}
}

func (w *loopScan[N]) Pre(i int) []int {
	w.pre.Set(i)

	return w.g.nodes[i].succs
}

func (w *loopScan[N]) Edge(from, to int) {
	if w.pre.IsSet(to) && !w.post.IsSet(to) {
		w.retreat = append(w.retreat, [2]int{from, to})
	}
}

func (w *loopScan[N]) Post(i int) {
	w.post.Set(i)
}

func (g *CFG[N]) Len() int { return len(g.nodes) }

func (g *CFG[N]) Block(i int) *N { return &g.nodes[i].block }

func (g *CFG[N]) Range(f func(i int, b *N) bool) {
	for i := range g.nodes {
		if !f(i, &g.nodes[i].block) {
			return
		}
	}
}

func (g *CFG[N]) Succs(i int) []int { return g.nodes[i].succs }
func (g *CFG[N]) Preds(i int) []int { return g.nodes[i].preds }

// DomPre and DomPost are the dominator tree visit indices.
func (g *CFG[N]) DomPre(i int) int  { return g.nodes[i].domPre }
func (g *CFG[N]) DomPost(i int) int { return g.nodes[i].domPost }

// DomParent returns the immediate dominator, false for the entry.
func (g *CFG[N]) DomParent(i int) (int, bool) {
	d := g.nodes[i].dom

	if i == 0 {
		return none, false
	}

	return d, true
}

// Dominates reports whether p dominates c, reflexively,
// by dominator tree interval containment.
func (g *CFG[N]) Dominates(p, c int) bool {
	return g.nodes[p].domPre <= g.nodes[c].domPre &&
		g.nodes[c].domPost <= g.nodes[p].domPost
}

func (g *CFG[N]) HasLoop() bool { return g.hasLoop }

func (g *CFG[N]) IsLoopHeader(i int) bool { return g.nodes[i].lph == i }

// LoopHeader returns the innermost loop header containing i.
// Headers contain themselves.
func (g *CFG[N]) LoopHeader(i int) (int, bool) {
	h := g.nodes[i].lph

	return h, h != none
}

// LoopDepth is the number of loops containing i, jumping from
// a header to its dominator's header.
func (g *CFG[N]) LoopDepth(i int) (d int) {
	h := g.nodes[i].lph

	for h != none {
		d++

		if h == 0 {
			break
		}

		h = g.nodes[g.nodes[h].dom].lph
	}

	return d
}

// Drain moves the payloads out in index order leaving the CFG empty.
func (g *CFG[N]) Drain() []N {
	r := make([]N, len(g.nodes))

	for i := range g.nodes {
		r[i] = g.nodes[i].block
	}

	g.nodes = nil
	g.hasLoop = false

	return r
}
