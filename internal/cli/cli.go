package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qtranspile/pkg/buildinfo"
	"github.com/matzehuels/qtranspile/pkg/cache"
	"github.com/matzehuels/qtranspile/pkg/pipeline"
	"github.com/matzehuels/qtranspile/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "qtranspile"

	// envRedisURL selects a Redis result cache instead of the file cache.
	envRedisURL = "QTRANSPILE_REDIS_URL"

	// envStore overrides the run history location.
	envStore = "QTRANSPILE_STORE"

	// historyFile is the SQLite database name under the data directory.
	historyFile = "history.db"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	redisURL string // --redis
	storeURI string // --store
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "qtranspile maps quantum circuits onto device topologies",
		Long: `qtranspile reads circuits in a small OpenQASM 2 subset, routes them onto the
coupling map of a target device, simplifies them with optimization passes and
reports how depth and gate count changed.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.redisURL, "redis", os.Getenv(envRedisURL),
		"Redis URL for the result cache (default file cache, env "+envRedisURL+")")
	root.PersistentFlags().StringVar(&c.storeURI, "store", os.Getenv(envStore),
		"run history: sqlite://path or mongodb://host/db (env "+envStore+")")

	// Register all subcommands
	root.AddCommand(c.transpileCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.backendsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Keys in a shared Redis
// are prefixed with the application name.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if _, ok := ch.(*cache.RedisCache); ok {
		keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache picks Redis when configured, the file cache otherwise. An
// unreachable Redis disables caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.redisURL != "" {
		sp := newSpinnerWithContext(ctx, "Connecting to Redis...")
		sp.Start()
		rc, err := cache.NewRedisCache(ctx, c.redisURL)
		sp.Stop()
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// openStore opens the run history named by --store, or the default SQLite
// database under the data directory.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	uri := c.storeURI
	if uri == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		uri = "sqlite://" + filepath.Join(dir, historyFile)
	}
	if !strings.HasPrefix(uri, "mongodb") {
		return store.Open(ctx, uri)
	}
	sp := newSpinnerWithContext(ctx, "Opening run history...")
	sp.Start()
	defer sp.Stop()
	return store.Open(ctx, uri)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/qtranspile/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// dataDir returns the data directory using XDG standard (~/.local/share/qtranspile/).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
