package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"

	"github.com/pavanmanishd/alloc"
	"github.com/pavanmanishd/alloc/config"
	"github.com/pavanmanishd/alloc/container"
)

// demoCommand fills a small arena with mixed types and grows a list on top
// of it, printing the block chain after each step.
type demoCommand struct {
	cfg       *config.Config
	blockSize int
}

func addDemoCommand(app *kingpin.Application, cfg *config.Config) {
	cmd := &demoCommand{cfg: cfg}
	c := app.Command("demo", "Allocate mixed types from a small arena and show its blocks.")
	c.Flag("block-size", "Block size of the demo arena in bytes.").Default("32").IntVar(&cmd.blockSize)
	c.Action(func(_ *kingpin.ParseContext) error {
		return cmd.run(os.Stdout)
	})
}

func (cmd *demoCommand) run(w io.Writer) error {
	logger := newLogger(cmd.cfg.LogLevel)
	backing, err := cmd.cfg.NewBacking(logger)
	if err != nil {
		return err
	}
	defer closeLogged(logger, "backing allocator", func() error { return config.CloseBacking(backing) })

	a := alloc.NewArenaAllocator(backing, cmd.blockSize, alloc.WithLogger(logger))
	defer a.Destroy()

	ns, err := alloc.MakeSlice[int32](a, 8)
	if err != nil {
		return err
	}
	fill(ns, 66)
	fmt.Fprintf(w, "ns  = %v\n", ns)
	printBlocks(w, a)

	fs, err := alloc.MakeSlice[float32](a, 5)
	if err != nil {
		return err
	}
	fill(fs, 1.23)
	fmt.Fprintf(w, "fs  = %v\n", fs)
	printBlocks(w, a)

	cs, err := alloc.MakeSlice[byte](a, 12)
	if err != nil {
		return err
	}
	fill(cs, 'X')
	fmt.Fprintf(w, "cs  = %s\n", cs)
	printBlocks(w, a)

	m := a.Mark()
	var list container.List[int64]
	for i := int64(1); i <= 3; i++ {
		if err := list.Append(a, i); err != nil {
			return err
		}
	}
	first, _ := list.First()
	last, _ := list.Last()
	fmt.Fprintf(w, "list = %s, first = %d, last = %d\n", list.String(), first, last)
	printBlocks(w, a)

	if err := a.Rollback(m); err != nil {
		return err
	}
	fmt.Fprintln(w, "rolled back list")
	printBlocks(w, a)
	return nil
}

func fill[T any](s []T, v T) {
	for i := range s {
		s[i] = v
	}
}

func printBlocks(w io.Writer, a *alloc.ArenaAllocator) {
	var parts []string
	for _, b := range a.Blocks() {
		kind := ""
		if b.Dedicated {
			kind = " dedicated"
		}
		parts = append(parts, fmt.Sprintf("[%d/%d%s]", b.Allocated, b.Size, kind))
	}
	fmt.Fprintf(w, "  blocks: %s (%s in use)\n", strings.Join(parts, " -> "), humanize.IBytes(uint64(a.SizeInUse())))
}
