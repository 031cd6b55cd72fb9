package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wikigraph/pkg/buildinfo"
	"github.com/matzehuels/wikigraph/pkg/cache"
	"github.com/matzehuels/wikigraph/pkg/config"
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "wikigraph"

	// defaultSteps is the number of passes "layout" runs.
	defaultSteps = 300
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
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
		Use:           appName,
		Short:         "Wikigraph lays out link graphs with a force-directed engine",
		Long:          `Wikigraph loads a graph of linked pages, lays it out with a quadtree-accelerated force simulation, and serves the positions over HTTP, websocket or Redis.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/wikigraph/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.workerCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.componentsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadConfig resolves the configuration for the current invocation.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// openCache opens the checkpoint cache, or the null cache when noCache is set.
func openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	c, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	return c, nil
}

// loadGraph reads path and installs it in l, starting from checkpointed
// positions when any exist. It returns the graph hash so callers can keep
// checkpointing it.
func loadGraph(ctx context.Context, l worker.Layouter, c cache.Cache, cfg config.Config, path string) (worker.Stats, string, bool, error) {
	g, err := graph.ReadFile(path, cfg.LinkMapOptions())
	if err != nil {
		return worker.Stats{}, "", false, fmt.Errorf("load graph %s: %w", path, err)
	}
	return installGraph(ctx, l, c, cfg, g)
}

func installGraph(ctx context.Context, l worker.Layouter, c cache.Cache, cfg config.Config, g *graph.Graph) (worker.Stats, string, bool, error) {
	logger := loggerFromContext(ctx)

	hash, err := worker.GraphHash(g)
	if err != nil {
		return worker.Stats{}, "", false, err
	}
	positions, resumed, err := worker.Resume(ctx, c, cfg.Keyer(), hash)
	if err != nil {
		logger.Warn("checkpoint unavailable", "err", err)
	}
	stats, err := l.SetGraph(ctx, g, positions)
	if err != nil {
		return worker.Stats{}, "", false, err
	}
	return stats, hash, resumed, nil
}
