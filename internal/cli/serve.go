package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wikigraph/pkg/cache"
	"github.com/matzehuels/wikigraph/pkg/config"
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/observability"
	"github.com/matzehuels/wikigraph/pkg/rpc"
	"github.com/matzehuels/wikigraph/pkg/server"
	"github.com/matzehuels/wikigraph/pkg/watch"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

type serveFlags struct {
	addr    string
	remote  bool
	noCache bool
	noWatch bool
}

// serveCommand creates the serve command for the live HTTP surface.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Animate a graph and serve it over HTTP",
		Long: `Animate a graph and serve it over HTTP.

The layout runs continuously and the smoothed positions are served at
/api/frame. Clients can drag nodes, replace the graph with POST /api/graph,
or drive the engine directly over the websocket endpoint /ws.

With --remote the engine runs in a separate "wikigraph worker" process
reached over Redis pub/sub. When a graph file is given it is reloaded
whenever it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (default: from config)")
	cmd.Flags().BoolVar(&f.remote, "remote", false, "use a Redis-connected worker instead of a local engine")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable checkpoints")
	cmd.Flags().BoolVar(&f.noWatch, "no-watch", false, "do not reload the graph file on change")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, f serveFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observability.SetAll(observability.NewPrometheus(reg))

	store, err := openCache(ctx, cfg, f.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	l, closeLayouter, err := c.newLayouter(ctx, cfg, f.remote)
	if err != nil {
		return err
	}
	defer closeLayouter()

	animator := worker.NewAnimator(l, cfg.AnimatorConfig(), c.Logger)
	cp := worker.NewCheckpointer(l, store, cfg.Keyer(), cfg.Cache.TTL.Duration, c.Logger)

	install := func(ctx context.Context, g *graph.Graph) (worker.Stats, bool, error) {
		stats, hash, resumed, err := installGraph(withLogger(ctx, c.Logger), l, store, cfg, g)
		if err != nil {
			return worker.Stats{}, false, err
		}
		cp.Track(hash)
		c.Logger.Info("graph installed", "nodes", stats.Nodes, "edges", stats.Edges, "resumed", resumed)
		return stats, resumed, nil
	}
	load := func(ctx context.Context, g *graph.Graph) (worker.Stats, error) {
		stats, _, err := install(ctx, g)
		return stats, err
	}

	if input != "" {
		g, err := graph.ReadFile(input, cfg.LinkMapOptions())
		if err != nil {
			return fmt.Errorf("load graph %s: %w", input, err)
		}
		stats, resumed, err := install(ctx, g)
		if err != nil {
			return err
		}
		printStats(stats.Nodes, stats.Edges, stats.Components, resumed)
	}

	srv := server.New(l, animator, server.Options{
		RequestTimeout: cfg.Server.RequestTimeout.Duration,
		WSRate:         cfg.Server.WSRate,
		WSBurst:        cfg.Server.WSBurst,
		LinkMap:        cfg.LinkMapOptions(),
		Load:           load,
		Gatherer:       reg,
	}, c.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg.Server.Addr) })
	g.Go(func() error { return animator.Run(gctx) })
	if !f.noCache && cfg.Cache.Backend != cache.BackendNone && cfg.Cache.Interval.Duration > 0 {
		g.Go(func() error { return cp.Run(gctx, cfg.Cache.Interval.Duration) })
	}
	if input != "" && !f.noWatch {
		w, err := watch.New(input, func(ctx context.Context, g *graph.Graph) error {
			_, err := load(ctx, g)
			return err
		}, watch.Options{Debounce: cfg.Watch.Debounce.Duration, LinkMap: cfg.LinkMapOptions()}, c.Logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(gctx) })
	}

	engine := "local"
	if f.remote {
		engine = "redis " + cfg.Redis.Channel
	}
	printSuccess("Serving on %s", StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
	printKeyValue("Engine", engine)
	printKeyValue("Checkpoints", cfg.Cache.Backend)
	printDetail("Press Ctrl+C to stop")
	return g.Wait()
}

// newLayouter returns a local engine host, or a client for a remote worker
// when remote is set. The returned func releases it.
func (c *CLI) newLayouter(ctx context.Context, cfg config.Config, remote bool) (worker.Layouter, func(), error) {
	if !remote {
		host, err := worker.NewHost(cfg.Layout, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		return host, func() { host.Close() }, nil
	}

	rdb, err := newRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	requests, replies := rpc.RedisChannels(cfg.Redis.Channel)
	t, err := rpc.NewRedis(ctx, rdb, requests, replies)
	if err != nil {
		rdb.Close()
		return nil, nil, err
	}
	client := rpc.Connect(worker.Tag, t, c.Logger)
	c.Logger.Info("using remote worker", "channel", cfg.Redis.Channel)
	return worker.NewClient(client), func() {
		client.Close()
		t.Close()
		rdb.Close()
	}, nil
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
