package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/wikigraph/pkg/throttle"
)

type write struct {
	key    string
	data   []byte
	ttl    time.Duration
	delete bool
}

// Throttled passes reads straight through and routes writes and deletes
// through a rate-limited scheduler.
type Throttled struct {
	Cache
	sched *throttle.Scheduler[write, struct{}]
}

// NewThrottled wraps inner with the limits in cfg.
func NewThrottled(inner Cache, cfg throttle.Config) (*Throttled, error) {
	t := &Throttled{Cache: inner}
	sched, err := throttle.New(t.apply, cfg)
	if err != nil {
		return nil, err
	}
	t.sched = sched
	return t, nil
}

func (t *Throttled) apply(ctx context.Context, w write) (struct{}, error) {
	if w.delete {
		return struct{}{}, t.Cache.Delete(ctx, w.key)
	}
	return struct{}{}, t.Cache.Set(ctx, w.key, w.data, w.ttl)
}

// Set queues a write and waits for it.
func (t *Throttled) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	_, err := t.sched.Submit(ctx, write{key: key, data: data, ttl: ttl})
	return err
}

// Delete queues a delete and waits for it.
func (t *Throttled) Delete(ctx context.Context, key string) error {
	_, err := t.sched.Submit(ctx, write{key: key, delete: true})
	return err
}

// Close stops the scheduler, failing queued writes, then closes the inner
// cache.
func (t *Throttled) Close() error {
	return errors.Join(t.sched.Close(), t.Cache.Close())
}

var _ Cache = (*Throttled)(nil)
