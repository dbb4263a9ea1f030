package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warplang/warp/compiler/live"
)

func TestAnalyze(t *testing.T) {
	text := `
# counter loop, value 1 is only read after it
entry def 0 1 -> head
head use 0 -> body exit
body def 0 use 0 1 -> head
exit use 1
`

	rep, err := Analyze(context.Background(), []byte(text))
	require.NoError(t, err)

	exp := `block 0 entry  preds []  succs [1]  live_in []  live_out [0 1]
block 1 head  idom 0  loop 1 depth 1  preds [0 2]  succs [2 3]  live_in [0 1]  live_out [0 1]
block 2 body  idom 1  loop 1 depth 1  preds [1]  succs [1]  live_in [0 1]  live_out [0 1]
block 3 exit  idom 1  preds [1]  succs []  live_in [1]  live_out []
max_live 2
`

	assert.Equal(t, exp, string(rep))
}

func TestAnalyzeDiamond(t *testing.T) {
	text := `
entry def 1 2 -> left right
left use 1 -> join
right use 2 -> join
join
`

	rep, err := Analyze(context.Background(), []byte(text))
	require.NoError(t, err)

	exp := `block 0 entry  preds []  succs [1 2]  live_in []  live_out [1 2]
block 1 left  idom 0  preds [0]  succs [3]  live_in [1]  live_out []
block 2 right  idom 0  preds [0]  succs [3]  live_in [2]  live_out []
block 3 join  idom 0  preds [1 2]  succs []  live_in []  live_out []
max_live 2
`

	assert.Equal(t, exp, string(rep))
}

func TestAnalyzeStubSuccessor(t *testing.T) {
	rep, err := Analyze(context.Background(), []byte("a -> b"))
	require.NoError(t, err)

	exp := `block 0 a  preds []  succs [1]  live_in []  live_out []
block 1 b  idom 0  preds [0]  succs []  live_in []  live_out []
max_live 0
`

	assert.Equal(t, exp, string(rep))
}

func TestAnalyzeFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "g.txt")

	err := os.WriteFile(name, []byte("a def 1 -> b\nb use 1"), 0o644)
	require.NoError(t, err)

	rep, err := AnalyzeFile(context.Background(), name)
	require.NoError(t, err)

	assert.Contains(t, string(rep), "block 1 b  idom 0")
	assert.Contains(t, string(rep), "max_live 1")

	_, err = AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "read file")
}

func TestParseGraphErrors(t *testing.T) {
	_, err := ParseGraph(nil)
	assert.ErrorContains(t, err, "empty graph")

	_, err = ParseGraph([]byte("# only comments\n"))
	assert.ErrorContains(t, err, "empty graph")

	_, err = ParseGraph([]byte("a def x"))
	assert.ErrorContains(t, err, "value expected")

	_, err = ParseGraph([]byte("a use 1\nb def -1"))
	assert.ErrorContains(t, err, `line 2: value expected, got "-1"`)

	_, err = ParseGraph([]byte("a b"))
	assert.ErrorContains(t, err, "unexpected token")
}

func TestParseGraphRedefine(t *testing.T) {
	// the last definition of a label wins
	g, err := ParseGraph([]byte("a def 1 -> b\nb use 1\nb use 1 def 2"))
	require.NoError(t, err)

	require.Equal(t, 2, g.Len())
	assert.Equal(t, []live.Value{2}, g.Block(1).Def)
	assert.Equal(t, []live.Value{1}, g.Block(1).Use)
}
