package cfg

import "github.com/warplang/warp/compiler/set"

type (
	// Visitor observes a depth first walk.
	// Pre is called once per reached node and returns the out edges
	// to attempt in order. Edge is called for every attempt, whether
	// the target was visited or not. Post is called after all of the
	// node's children are done.
	Visitor interface {
		Pre(i int) []int
		Edge(from, to int)
		Post(i int)
	}

	frame struct {
		i    int
		next int
		out  []int
	}
)

// DepthFirst walks the graph from start on an explicit stack.
func DepthFirst(start int, v Visitor) {
	var visited set.Bitmap

	visited.Set(start)

	stack := []frame{{i: start, out: v.Pre(start)}}

	for len(stack) != 0 {
		f := &stack[len(stack)-1]

		if f.next == len(f.out) {
			v.Post(f.i)
			stack = stack[:len(stack)-1]

			continue
		}

		to := f.out[f.next]
		f.next++

		v.Edge(f.i, to)

		if visited.Set(to) {
			stack = append(stack, frame{i: to, out: v.Pre(to)})
		}
	}
}
