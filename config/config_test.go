package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alecthomas/kingpin/v2"
	"github.com/c2h5oh/datasize"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/alloc"
	"github.com/pavanmanishd/alloc/alloctest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, BackingGo, cfg.Backing)
	require.Equal(t, uint64(alloc.DefaultBlockSize), cfg.BlockSize.Bytes())
	require.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected Config
	}{
		{
			name:     "empty file keeps defaults",
			content:  "",
			expected: Default(),
		},
		{
			name: "all fields",
			content: `
backing: heap
block_size: 1MB
log_level: debug
`,
			expected: Config{Backing: BackingHeap, BlockSize: datasize.MB, LogLevel: "debug"},
		},
		{
			name:     "plain byte count",
			content:  "block_size: 4096\n",
			expected: Config{Backing: BackingGo, BlockSize: 4096, LogLevel: "info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			require.NoError(t, err)
			require.Equal(t, tt.expected, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown backing", "backing: tcmalloc\n", `unknown backing allocator "tcmalloc"`},
		{"bad size", "block_size: lots\n", "parse config"},
		{"unknown level", "log_level: chatty\n", `unknown log level "chatty"`},
		{"too large", "block_size: 2TB\n", "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegisterFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Config
	}{
		{
			name:     "defaults",
			args:     nil,
			expected: Default(),
		},
		{
			name:     "overrides",
			args:     []string{"--alloc.backing=heap", "--alloc.block-size=32KB", "--log.level=warn"},
			expected: Config{Backing: BackingHeap, BlockSize: 32 * datasize.KB, LogLevel: "warn"},
		},
		{
			name:     "zero block size",
			args:     []string{"--alloc.block-size", "0"},
			expected: Config{Backing: BackingGo, BlockSize: 0, LogLevel: "info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := kingpin.New("test", "")
			cfg := Default()
			cfg.RegisterFlags(app)

			_, err := app.Parse(tt.args)
			require.NoError(t, err)
			require.Equal(t, tt.expected, cfg)
		})
	}
}

func TestRegisterFlagsFileDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "backing: heap\nblock_size: 8KB\n"))
	require.NoError(t, err)

	app := kingpin.New("test", "")
	cfg.RegisterFlags(app)
	_, err = app.Parse([]string{"--log.level=error"})
	require.NoError(t, err)
	require.Equal(t, Config{Backing: BackingHeap, BlockSize: 8 * datasize.KB, LogLevel: "error"}, cfg)
}

func TestRegisterFlagsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"--alloc.backing=jemalloc"},
		{"--alloc.block-size=big"},
		{"--log.level=trace"},
	} {
		app := kingpin.New("test", "")
		cfg := Default()
		cfg.RegisterFlags(app)
		_, err := app.Parse(args)
		require.Error(t, err, "args %v", args)
	}
}

func TestBuild(t *testing.T) {
	backings := []string{BackingGo, BackingHeap}
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		backings = append(backings, BackingMmap)
	}

	for _, backing := range backings {
		t.Run(backing, func(t *testing.T) {
			cfg := Config{Backing: backing, BlockSize: 4 * datasize.KB, LogLevel: "info"}

			var tracker *alloctest.Tracker
			a, err := cfg.Build(log.NewNopLogger(), func(next alloc.RawAllocator) alloc.RawAllocator {
				tracker = alloctest.NewTracker(next)
				return tracker
			})
			require.NoError(t, err)
			require.Equal(t, 4096, a.BlockSize())
			require.Same(t, tracker, a.ArenaAllocator.Backing())

			for i := 0; i < 10; i++ {
				buf, err := a.Allocate(1000, 16)
				require.NoError(t, err)
				buf[999] = byte(i)
			}
			require.Equal(t, 3, a.NumBlocks())

			require.NoError(t, a.Close())
			require.Equal(t, 0, tracker.Live())
			require.Empty(t, tracker.Errors)
		})
	}
}

func TestBuildInvalid(t *testing.T) {
	cfg := Config{Backing: "nope"}
	_, err := cfg.Build(nil, nil)
	require.Error(t, err)

	_, err = cfg.NewBacking(nil)
	require.Error(t, err)
}

func TestCloseBacking(t *testing.T) {
	require.NoError(t, CloseBacking(alloc.NewGoAllocator()))

	heap := alloc.NewHeapAllocator(nil)
	_, err := heap.Allocate(64, 8)
	require.NoError(t, err)
	require.NoError(t, CloseBacking(heap))
}
