package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikigraph/pkg/layout"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

type layoutFlags struct {
	output     string
	steps      int
	noCache    bool
	seed       uint64
	repulsion  float64
	attraction float64
}

// layoutCommand creates the layout command for computing positions offline.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a graph",
		Long: `Compute node positions for a graph.

The layout command reads a node/edge graph or a link map, runs a fixed number
of force-directed passes and writes the positions as [{id,x,y}] JSON.

Positions are checkpointed in the cache, so a later run on the same graph
continues where the previous one stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.positions.json)")
	cmd.Flags().IntVarP(&f.steps, "steps", "n", defaultSteps, "number of passes")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "ignore and do not write checkpoints")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default: from config)")
	cmd.Flags().Float64Var(&f.repulsion, "repulsion", 0, "repulsion strength (default: from config)")
	cmd.Flags().Float64Var(&f.attraction, "attraction", 0, "attraction strength (default: from config)")

	return cmd
}

// runLayout loads the graph, steps it and writes the positions.
func (c *CLI) runLayout(cmd *cobra.Command, input string, f layoutFlags) error {
	ctx := cmd.Context()
	if f.steps < 0 {
		return fmt.Errorf("steps must not be negative")
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Layout.Seed = f.seed
	}
	if cmd.Flags().Changed("repulsion") {
		cfg.Animation.Repulsion = f.repulsion
	}
	if cmd.Flags().Changed("attraction") {
		cfg.Animation.Attraction = f.attraction
	}

	store, err := openCache(ctx, cfg, f.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	host, err := worker.NewHost(cfg.Layout, c.Logger)
	if err != nil {
		return err
	}
	defer host.Close()

	prog := newProgress(c.Logger)
	stats, hash, resumed, err := loadGraph(ctx, host, store, cfg, input)
	if err != nil {
		return err
	}
	if resumed {
		c.Logger.Info("resuming from checkpoint", "graph", hash[:12])
	}

	spinner := newStepSpinner(ctx, os.Stderr, fmt.Sprintf("Laying out %d nodes", stats.Nodes), f.steps)
	spinner.Start()
	snap, err := runSteps(ctx, host, f.steps, cfg.Animation.Repulsion, cfg.Animation.Attraction, spinner.Step)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Laid out %d nodes", stats.Nodes))

	if !snap.Finite() {
		printWarning("Some positions are not finite")
	}

	cp := worker.NewCheckpointer(host, store, cfg.Keyer(), cfg.Cache.TTL.Duration, c.Logger)
	cp.Track(hash)
	if err := cp.Save(ctx); err != nil {
		c.Logger.Warn("checkpoint failed", "err", err)
	}

	outputPath := f.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".positions.json"
	}
	if err := writeSnapshotFile(snap, outputPath); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(stats.Nodes, stats.Edges, stats.Components, resumed)
	printNewline()
	printNextStep("Animate", appName+" serve "+input)
	return nil
}

// runSteps runs n passes and returns the final snapshot, calling onStep
// after each pass. With n == 0 it returns the starting positions.
func runSteps(ctx context.Context, l worker.Layouter, n int, repulsion, attraction float64, onStep func()) (layout.Snapshot, error) {
	for i := 0; i < n; i++ {
		if _, err := l.Step(ctx, repulsion, attraction); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if onStep != nil {
			onStep()
		}
	}
	return l.Snapshot(ctx)
}

func writeSnapshotFile(s layout.Snapshot, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
