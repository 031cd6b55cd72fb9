package cache

import (
	"context"
	"fmt"

	"github.com/matzehuels/wikigraph/pkg/throttle"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Dir is the FileCache directory.
	Dir string

	// URL is the Redis or Mongo connection string.
	URL string

	// Database and Collection locate the Mongo collection.
	Database   string
	Collection string

	// Throttle, if set, rate-limits writes.
	Throttle *throttle.Config
}

// Open builds the configured cache, instrumented under its backend name.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		c, err = NewFileCache(opts.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.URL)
	case BackendMongo:
		c, err = NewMongoCache(ctx, opts.URL, opts.Database, opts.Collection)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}
	c = Instrument(c, backend)
	if opts.Throttle != nil {
		t, err := NewThrottled(c, *opts.Throttle)
		if err != nil {
			c.Close()
			return nil, err
		}
		c = t
	}
	return c, nil
}
