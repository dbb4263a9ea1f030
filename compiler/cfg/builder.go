package cfg

import "fmt"

type (
	// Builder accumulates keyed blocks and key addressed edges and
	// resolves them into a CFG. The first block added is the entry.
	// Re-adding a key rebinds it, the older block becomes unreachable
	// and is dropped at Build.
	Builder[K comparable, N any] struct {
		blocks []N
		idx    map[K]int
		edges  [][2]K
	}
)

func (b *Builder[K, N]) Add(key K, block N) {
	if b.idx == nil {
		b.idx = map[K]int{}
	}

	b.idx[key] = len(b.blocks)
	b.blocks = append(b.blocks, block)
}

// AddEdge links two blocks by key. The keys may be added later,
// they are only resolved at Build.
func (b *Builder[K, N]) AddEdge(from, to K) {
	b.edges = append(b.edges, [2]K{from, to})
}

// Build resolves the keys and constructs the CFG.
// An edge key never added panics.
func (b *Builder[K, N]) Build() *CFG[N] {
	edges := make([][2]int, len(b.edges))

	for i, e := range b.edges {
		edges[i] = [2]int{b.key(e[0]), b.key(e[1])}
	}

	return New(b.blocks, edges)
}

func (b *Builder[K, N]) key(k K) int {
	i, ok := b.idx[k]
	if !ok {
		panic(fmt.Sprintf("cfg: key not found: %v", k))
	}

	return i
}
