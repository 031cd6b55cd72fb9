package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikigraph/pkg/cache"
	"github.com/matzehuels/wikigraph/pkg/config"
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage layout checkpoints",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [graph.json]",
		Short: "Delete checkpoints",
		Long: `Delete checkpoints.

With a graph file, only that graph's checkpoint is deleted, from whichever
backend is configured. Without one, every checkpoint in the file cache is
removed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return c.clearCheckpoint(cmd.Context(), cfg, args[0])
			}
			return clearFileCache(cfg)
		},
	}
}

func (c *CLI) clearCheckpoint(ctx context.Context, cfg config.Config, path string) error {
	g, err := graph.ReadFile(path, cfg.LinkMapOptions())
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}
	hash, err := worker.GraphHash(g)
	if err != nil {
		return err
	}
	store, err := openCache(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer store.Close()

	key := cfg.Keyer().CheckpointKey(hash, cache.CheckpointKeyOpts{})
	if err := cache.RetryWithBackoff(ctx, func() error { return store.Delete(ctx, key) }); err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	printSuccess("Cleared checkpoint for %s", path)
	printDetail("Key: %s", key)
	return nil
}

func clearFileCache(cfg config.Config) error {
	if cfg.Cache.Backend != cache.BackendFile {
		return fmt.Errorf("clearing all checkpoints is only supported for the file backend (configured: %s)", cfg.Cache.Backend)
	}
	if _, err := os.Stat(cfg.Cache.Dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		return err
	}
	count, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %d checkpoints", count)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}
