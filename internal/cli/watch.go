package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/rpc"
	"github.com/matzehuels/wikigraph/pkg/watch"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

const defaultRefresh = 250 * time.Millisecond

// watchCommand creates the watch command for the live terminal view.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		wsURL   string
		refresh time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Show live layout statistics in the terminal",
		Long: `Show live layout statistics in the terminal.

Given a graph file, watch animates it locally and reloads it when the file
changes. With --ws it attaches to a running "wikigraph serve" over its
websocket endpoint and samples the server's engine instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case wsURL != "" && len(args) == 0:
				return c.watchRemote(cmd.Context(), wsURL, refresh)
			case wsURL == "" && len(args) == 1:
				return c.watchLocal(cmd.Context(), args[0], refresh)
			}
			return errors.New("pass either a graph file or --ws")
		},
	}

	cmd.Flags().StringVar(&wsURL, "ws", "", "websocket URL of a running server (e.g. ws://localhost:8080/ws)")
	cmd.Flags().DurationVar(&refresh, "refresh", defaultRefresh, "sampling interval")

	return cmd
}

func (c *CLI) watchLocal(ctx context.Context, path string, refresh time.Duration) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := openCache(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer store.Close()

	host, err := worker.NewHost(cfg.Layout, c.Logger)
	if err != nil {
		return err
	}
	defer host.Close()

	// The TUI owns the terminal; keep log lines out of it.
	c.SetLogLevel(LogError)

	var components atomic.Int64
	load := func(ctx context.Context, g *graph.Graph) error {
		stats, _, _, err := installGraph(withLogger(ctx, c.Logger), host, store, cfg, g)
		if err != nil {
			return err
		}
		components.Store(int64(stats.Components))
		return nil
	}
	g, err := graph.ReadFile(path, cfg.LinkMapOptions())
	if err != nil {
		return fmt.Errorf("load graph %s: %w", path, err)
	}
	if err := load(ctx, g); err != nil {
		return err
	}

	w, err := watch.New(path, load, watch.Options{Debounce: cfg.Watch.Debounce.Duration, LinkMap: cfg.LinkMapOptions()}, c.Logger)
	if err != nil {
		return err
	}
	animator := worker.NewAnimator(host, cfg.AnimatorConfig(), c.Logger)

	source := func(context.Context) (watchStats, error) {
		st := animator.Stats()
		lo, hi := animator.Current().Bounds()
		return watchStats{
			Nodes:      st.Nodes,
			Components: int(components.Load()),
			Steps:      st.Steps,
			Iteration:  st.Iteration,
			Energy:     st.Energy,
			Lo:         lo,
			Hi:         hi,
		}, nil
	}
	return runWatchUI(ctx, newWatchModel(ctx, "wikigraph · "+path, source, refresh), animator.Run, w.Run)
}

func (c *CLI) watchRemote(ctx context.Context, url string, refresh time.Duration) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	ws := rpc.NewWebSocket(conn, nil)
	defer ws.Close()

	client := rpc.Connect(worker.Tag, ws, c.Logger)
	defer client.Close()
	remote := worker.NewClient(client)

	c.SetLogLevel(LogError)

	source := func(ctx context.Context) (watchStats, error) {
		snap, err := remote.Snapshot(ctx)
		if err != nil {
			return watchStats{}, err
		}
		comps, err := remote.Components(ctx)
		if err != nil {
			return watchStats{}, err
		}
		lo, hi := snap.Bounds()
		return watchStats{Nodes: len(snap), Components: len(comps), Lo: lo, Hi: hi}, nil
	}
	return runWatchUI(ctx, newWatchModel(ctx, "wikigraph · "+url, source, refresh))
}

// runWatchUI runs the TUI alongside background loops. Quitting the TUI
// stops the loops.
func runWatchUI(ctx context.Context, m WatchModel, loops ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, loop := range loops {
		g.Go(func() error { return loop(gctx) })
	}

	m.ctx = gctx
	_, err := tea.NewProgram(m, tea.WithContext(gctx), tea.WithAltScreen()).Run()
	cancel()
	if werr := g.Wait(); werr != nil {
		return werr
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run watch view: %w", err)
	}
	return nil
}
