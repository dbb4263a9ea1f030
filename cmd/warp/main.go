package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/warplang/warp/compiler"
)

func main() {
	graphCmd := &cli.Command{
		Name:   "graph",
		Action: graphAct,
		Args:   cli.Args{},
	}

	analyzeCmd := &cli.Command{
		Name:   "analyze",
		Action: analyzeAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "warp",
		Description: "warp is a tool for analyzing warp intermediate code",
		Commands: []*cli.Command{
			graphCmd,
			analyzeCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func graphAct(c *cli.Command) (err error) {
	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		g, err := compiler.ParseGraph(text)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		g.Range(func(i int, b *compiler.Block) bool {
			fmt.Printf("%d %s -> %v\n", i, b.Label, g.Succs(i))

			return true
		})
	}

	return nil
}

func analyzeAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		rep, err := compiler.AnalyzeFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "analyze %v", a)
		}

		fmt.Printf("%s", rep)
	}

	return nil
}
