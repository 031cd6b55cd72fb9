package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wikigraph/pkg/cache"
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/layout"
)

// finalSaveTimeout bounds the save made when Run is cancelled.
const finalSaveTimeout = 5 * time.Second

// GraphHash is the content hash of g used as its checkpoint identity.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", fmt.Errorf("hash graph: %w", err)
	}
	return cache.Hash(data), nil
}

// Resume loads the checkpointed positions for graphHash. A missing or
// unreadable checkpoint yields ok == false.
func Resume(ctx context.Context, c cache.Cache, keyer cache.Keyer, graphHash string) (map[string]layout.Vec, bool, error) {
	data, ok, err := c.Get(ctx, keyer.CheckpointKey(graphHash, cache.CheckpointKeyOpts{}))
	if err != nil || !ok {
		return nil, false, err
	}
	var snap layout.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, nil
	}
	return snap.Positions(), true, nil
}

// Checkpointer saves a Layouter's positions under the hash of the graph
// it is tracking.
type Checkpointer struct {
	l      Layouter
	c      cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger

	mu    sync.Mutex
	hash  string
	saves int
}

// NewCheckpointer creates a checkpointer. ttl of zero keeps checkpoints
// until overwritten. A nil logger uses log.Default().
func NewCheckpointer(l Layouter, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Checkpointer {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Checkpointer{l: l, c: c, keyer: keyer, ttl: ttl, logger: logger}
}

// Track sets the hash of the graph currently loaded in the Layouter.
func (cp *Checkpointer) Track(graphHash string) {
	cp.mu.Lock()
	cp.hash = graphHash
	cp.mu.Unlock()
}

// Saves returns the number of successful saves.
func (cp *Checkpointer) Saves() int {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.saves
}

// Save writes the current positions. It does nothing until a graph is
// tracked.
func (cp *Checkpointer) Save(ctx context.Context) error {
	cp.mu.Lock()
	hash := cp.hash
	cp.mu.Unlock()
	if hash == "" {
		return nil
	}

	snap, err := cp.l.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("checkpoint snapshot: %w", err)
	}
	if len(snap) == 0 {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := cp.c.Set(ctx, cp.keyer.CheckpointKey(hash, cache.CheckpointKeyOpts{}), data, cp.ttl); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	cp.mu.Lock()
	cp.saves++
	cp.mu.Unlock()
	cp.logger.Debug("checkpoint saved", "graph", hash[:min(12, len(hash))], "nodes", len(snap))
	return nil
}

// Run saves every interval until ctx is done, then saves once more. Save
// failures are logged, not returned.
func (cp *Checkpointer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := cp.Save(ctx); err != nil {
				cp.logger.Warn("checkpoint failed", "err", err)
			}
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalSaveTimeout)
			defer cancel()
			if err := cp.Save(final); err != nil {
				cp.logger.Warn("final checkpoint failed", "err", err)
			}
			return nil
		}
	}
}
