package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/pavanmanishd/alloc"
	"github.com/pavanmanishd/alloc/config"
	"github.com/pavanmanishd/alloc/instrument"
)

// statsCommand runs a synthetic request-scoped workload: each round takes a
// mark, performs a batch of allocations and growing resizes, then rolls
// back.
type statsCommand struct {
	cfg         *config.Config
	rounds      int
	allocs      int
	maxSize     int
	seed        int64
	showMetrics bool
}

func addStatsCommand(app *kingpin.Application, cfg *config.Config) {
	cmd := &statsCommand{cfg: cfg}
	c := app.Command("stats", "Run a synthetic workload and print arena statistics.")
	c.Flag("rounds", "Number of mark/rollback rounds.").Default("100").IntVar(&cmd.rounds)
	c.Flag("allocs", "Allocations per round.").Default("1000").IntVar(&cmd.allocs)
	c.Flag("max-size", "Largest allocation in bytes.").Default("4096").IntVar(&cmd.maxSize)
	c.Flag("seed", "Random seed.").Default("1").Int64Var(&cmd.seed)
	c.Flag("metrics", "Print Prometheus metrics after the run.").BoolVar(&cmd.showMetrics)
	c.Action(func(_ *kingpin.ParseContext) error {
		return cmd.run(os.Stdout)
	})
}

func (cmd *statsCommand) run(w io.Writer) error {
	if cmd.maxSize <= 0 {
		return errors.New("max-size must be positive")
	}

	reg := prometheus.NewRegistry()
	metrics := instrument.NewMetrics(reg)
	logger := newLogger(cmd.cfg.LogLevel)

	built, err := cmd.cfg.Build(logger, func(next alloc.RawAllocator) alloc.RawAllocator {
		return instrument.New(cmd.cfg.Backing, next, metrics, logger)
	})
	if err != nil {
		return err
	}
	defer closeLogged(logger, "arena", built.Close)
	reg.MustRegister(instrument.NewArenaCollector("stats", built.ArenaAllocator))

	rng := rand.New(rand.NewSource(cmd.seed))
	var peak alloc.ArenaMetrics
	for r := 0; r < cmd.rounds; r++ {
		m := built.Mark()
		for i := 0; i < cmd.allocs; i++ {
			buf, err := built.Allocate(1+rng.Intn(cmd.maxSize), 1<<rng.Intn(4))
			if err != nil {
				return err
			}
			if rng.Intn(4) == 0 {
				if _, err := built.Resize(buf, 1, 2*len(buf)); err != nil {
					return err
				}
			}
		}
		if cur := built.Metrics(); cur.SizeInUse > peak.SizeInUse {
			peak = cur
		}
		if err := built.Rollback(m); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "backing:      %s\n", cmd.cfg.Backing)
	fmt.Fprintf(w, "block size:   %s\n", humanize.IBytes(cmd.cfg.BlockSize.Bytes()))
	fmt.Fprintf(w, "peak in use:  %s\n", humanize.IBytes(uint64(peak.SizeInUse)))
	fmt.Fprintf(w, "peak blocks:  %d (%s capacity)\n", peak.NumBlocks, humanize.IBytes(uint64(peak.Capacity)))
	fmt.Fprintf(w, "peak util:    %.2f%%\n", peak.Utilization*100)

	if cmd.showMetrics {
		families, err := reg.Gather()
		if err != nil {
			return err
		}
		enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return err
			}
		}
	}
	return nil
}
