// Command arenactl exercises the arena allocator from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/pavanmanishd/alloc/config"
)

func main() {
	app := kingpin.New("arenactl", "Run workloads against the arena allocator.")
	app.HelpFlag.Short('h')

	cfg := config.Default()
	if path := configFileArg(os.Args[1:]); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			exitWithErr(err)
		}
		cfg = loaded
	}
	app.Flag("config.file", "YAML configuration file, read before other flags.").String()
	cfg.RegisterFlags(app)

	addDemoCommand(app, &cfg)
	addStatsCommand(app, &cfg)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

// configFileArg finds --config.file ahead of flag parsing, so that the file
// provides defaults the remaining flags override.
func configFileArg(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config.file" && i+1 < len(args):
			return args[i+1]
		case len(arg) > len("--config.file=") && arg[:len("--config.file=")] == "--config.file=":
			return arg[len("--config.file="):]
		}
	}
	return ""
}

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

// closeLogged runs closeFn and logs its error at warn level.
func closeLogged(logger log.Logger, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		level.Warn(logger).Log("msg", "closing "+what, "err", err)
	}
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, "arenactl:", err)
	os.Exit(1)
}
