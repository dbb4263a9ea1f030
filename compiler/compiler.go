package compiler

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/warplang/warp/compiler/cfg"
	"github.com/warplang/warp/compiler/live"
)

type (
	// Block is a basic block of the analyzed function.
	// Def and Use list the values it writes and reads.
	Block struct {
		Label string

		Def []live.Value
		Use []live.Value
	}
)

func (b Block) Defs() []live.Value { return b.Def }
func (b Block) Uses() []live.Value { return b.Use }

func AnalyzeFile(ctx context.Context, name string) (rep []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Analyze(ctx, text)
}

// Analyze builds the control flow graph described by text,
// solves liveness over it and renders a report.
func Analyze(ctx context.Context, text []byte) (rep []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "analyze")
	defer tr.Finish("err", &err)

	g, err := ParseGraph(text)
	if err != nil {
		return nil, errors.Wrap(err, "parse graph")
	}

	lv := live.Compute(ctx, g)

	if tr.If("dump") {
		g.Range(func(i int, b *Block) bool {
			tr.Printw("block", "i", i, "label", b.Label, "succs", g.Succs(i))

			return true
		})
	}

	return renderReport(g, lv), nil
}

// ParseGraph parses a function given as one block per line.
//
//	name  [def N ...]  [use N ...]  [-> succ ...]
//
// The first block is the entry. A successor may be named before its
// own line appears. # starts a comment.
func ParseGraph(text []byte) (g *cfg.CFG[Block], err error) {
	var b cfg.Builder[string, Block]

	seen := map[string]bool{}
	blocks := 0

	for ln, line := range strings.Split(string(text), "\n") {
		if p := strings.IndexByte(line, '#'); p >= 0 {
			line = line[:p]
		}

		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}

		blk := Block{Label: f[0]}

		var succs []string
		mode := ""

		for _, tk := range f[1:] {
			switch tk {
			case "def", "use", "->":
				mode = tk
				continue
			}

			switch mode {
			case "def", "use":
				v, err := strconv.Atoi(tk)
				if err != nil || v < 0 {
					return nil, errors.New("line %d: value expected, got %q", ln+1, tk)
				}

				if mode == "def" {
					blk.Def = append(blk.Def, live.Value(v))
				} else {
					blk.Use = append(blk.Use, live.Value(v))
				}
			case "->":
				succs = append(succs, tk)
			default:
				return nil, errors.New("line %d: unexpected token %q", ln+1, tk)
			}
		}

		b.Add(blk.Label, blk)
		seen[blk.Label] = true
		blocks++

		for _, s := range succs {
			if !seen[s] {
				b.Add(s, Block{Label: s})
				seen[s] = true
			}

			b.AddEdge(blk.Label, s)
		}
	}

	if blocks == 0 {
		return nil, errors.New("empty graph")
	}

	return b.Build(), nil
}

func renderReport(g *cfg.CFG[Block], lv *live.Info) []byte {
	var b []byte

	g.Range(func(i int, blk *Block) bool {
		b = hfmt.Appendf(b, "block %d %s", i, blk.Label)

		if p, ok := g.DomParent(i); ok {
			b = hfmt.Appendf(b, "  idom %d", p)
		}

		if h, ok := g.LoopHeader(i); ok {
			b = hfmt.Appendf(b, "  loop %d depth %d", h, g.LoopDepth(i))
		}

		b = hfmt.Appendf(b, "  preds %v  succs %v", g.Preds(i), g.Succs(i))
		b = hfmt.Appendf(b, "  live_in %v  live_out %v\n", lv.In(i).Slice(), lv.Out(i).Slice())

		return true
	})

	b = hfmt.Appendf(b, "max_live %d\n", lv.MaxLive())

	return b
}
