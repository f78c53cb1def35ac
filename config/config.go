// Package config builds arena allocators from YAML files and command-line
// flags.
package config

import (
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/c2h5oh/datasize"
	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/alloc"
)

// Backing allocator names.
const (
	BackingGo   = "go"
	BackingHeap = "heap"
	BackingMmap = "mmap"
)

// Config describes an arena and the allocator behind it.
type Config struct {
	Backing   string            `yaml:"backing"`
	BlockSize datasize.ByteSize `yaml:"block_size"`
	LogLevel  string            `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Backing:   BackingGo,
		BlockSize: datasize.ByteSize(alloc.DefaultBlockSize),
		LogLevel:  "info",
	}
}

// flagger is implemented by kingpin applications and commands.
type flagger interface {
	Flag(name, help string) *kingpin.FlagClause
}

// RegisterFlags binds cfg to flags on app. Current field values are the
// defaults, so call it after Default or Load.
func (cfg *Config) RegisterFlags(app flagger) {
	app.Flag("alloc.backing", "Allocator arena blocks come from: go, heap or mmap.").
		Default(cfg.Backing).EnumVar(&cfg.Backing, BackingGo, BackingHeap, BackingMmap)
	app.Flag("alloc.block-size", "Default arena block size, e.g. 64KB. 0 gives every allocation its own block.").
		Default(cfg.BlockSize.String()).SetValue(&byteSizeValue{&cfg.BlockSize})
	app.Flag("log.level", "Only log messages with the given severity or above: debug, info, warn, error.").
		Default(cfg.LogLevel).EnumVar(&cfg.LogLevel, "debug", "info", "warn", "error")
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate reports configuration errors.
func (cfg *Config) Validate() error {
	switch cfg.Backing {
	case BackingGo, BackingHeap, BackingMmap:
	default:
		return errors.Errorf("unknown backing allocator %q", cfg.Backing)
	}
	if cfg.BlockSize.Bytes() > uint64(maxBlockSize) {
		return errors.Errorf("block size %s too large", cfg.BlockSize.HR())
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log level %q", cfg.LogLevel)
	}
	return nil
}

const maxBlockSize = 1 << 40

// Arena is an arena built from a Config together with its backing allocator.
type Arena struct {
	*alloc.ArenaAllocator
	Backing alloc.RawAllocator
}

// Close destroys the arena and releases whatever the backing allocator still
// holds.
func (a *Arena) Close() error {
	a.Destroy()
	return CloseBacking(a.Backing)
}

// CloseBacking releases a backing allocator that holds memory of its own.
func CloseBacking(backing alloc.RawAllocator) error {
	if c, ok := backing.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// NewBacking constructs the configured backing allocator.
func (cfg *Config) NewBacking(logger log.Logger) (alloc.RawAllocator, error) {
	switch cfg.Backing {
	case BackingGo:
		return alloc.NewGoAllocator(), nil
	case BackingHeap:
		return alloc.NewHeapAllocator(logger), nil
	case BackingMmap:
		m, err := alloc.NewMmapAllocator(logger)
		if err != nil {
			return nil, errors.Wrap(err, "mmap backing")
		}
		return m, nil
	}
	return nil, errors.Errorf("unknown backing allocator %q", cfg.Backing)
}

// Build constructs the backing allocator and the arena. wrap, if not nil,
// decorates the backing allocator before the arena uses it.
func (cfg *Config) Build(logger log.Logger, wrap func(alloc.RawAllocator) alloc.RawAllocator) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backing, err := cfg.NewBacking(logger)
	if err != nil {
		return nil, err
	}

	arenaBacking := backing
	if wrap != nil {
		arenaBacking = wrap(backing)
	}
	return &Arena{
		ArenaAllocator: alloc.NewArenaAllocator(arenaBacking, int(cfg.BlockSize.Bytes()), alloc.WithLogger(logger)),
		Backing:        backing,
	}, nil
}

// byteSizeValue adapts datasize.ByteSize to kingpin.Value.
type byteSizeValue struct {
	size *datasize.ByteSize
}

func (v *byteSizeValue) Set(s string) error {
	return v.size.UnmarshalText([]byte(s))
}

func (v *byteSizeValue) String() string {
	return v.size.String()
}
