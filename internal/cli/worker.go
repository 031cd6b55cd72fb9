package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wikigraph/pkg/rpc"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

// workerCommand creates the worker command that serves the engine over Redis.
func (c *CLI) workerCommand() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Serve the layout engine over Redis pub/sub",
		Long: `Serve the layout engine over Redis pub/sub.

The worker owns one layout engine and answers requests published on
<channel>:requests with replies on <channel>:replies. Start it before
"wikigraph serve --remote" so the server's first request is not lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWorker(cmd.Context(), channel)
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Redis channel prefix (default: from config)")

	return cmd
}

func (c *CLI) runWorker(ctx context.Context, channel string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if channel != "" {
		cfg.Redis.Channel = channel
	}

	rdb, err := newRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	requests, replies := rpc.RedisChannels(cfg.Redis.Channel)
	t, err := rpc.NewRedis(ctx, rdb, replies, requests)
	if err != nil {
		return err
	}
	defer t.Close()

	host, err := worker.NewHost(cfg.Layout, c.Logger)
	if err != nil {
		return err
	}
	defer host.Close()

	srv := rpc.NewServer(worker.Tag, worker.NewMux(host), t, c.Logger)
	defer srv.Close()

	printSuccess("Worker ready on %s", StyleHighlight.Render(requests))
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
