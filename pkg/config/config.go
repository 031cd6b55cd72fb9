package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/matzehuels/wikigraph/pkg/cache"
	"github.com/matzehuels/wikigraph/pkg/graph"
	"github.com/matzehuels/wikigraph/pkg/layout"
	"github.com/matzehuels/wikigraph/pkg/throttle"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

const appName = "wikigraph"

// Config holds all settings.
type Config struct {
	Layout    layout.Options `toml:"layout"`
	Animation Animation      `toml:"animation"`
	Graph     Graph          `toml:"graph"`
	Server    Server         `toml:"server"`
	Cache     Cache          `toml:"cache"`
	Redis     Redis          `toml:"redis"`
	Watch     Watch          `toml:"watch"`
}

// Animation configures the step loop.
type Animation struct {
	Repulsion     float64  `toml:"repulsion" validate:"gte=0"`
	Attraction    float64  `toml:"attraction" validate:"gte=0"`
	Alpha         float64  `toml:"alpha" validate:"gt=0,lte=1"`
	FrameInterval Duration `toml:"frame_interval"`
}

// Graph configures ingestion of link maps.
type Graph struct {
	BaseURL         string `toml:"base_url" validate:"omitempty,url"`
	IncludeChildren bool   `toml:"include_children"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr           string   `toml:"addr" validate:"required"`
	RequestTimeout Duration `toml:"request_timeout"`
	// WSRate limits inbound websocket frames per second; zero disables it.
	WSRate  float64 `toml:"ws_rate" validate:"gte=0"`
	WSBurst int     `toml:"ws_burst" validate:"gte=0"`
}

// Cache configures checkpoint storage.
type Cache struct {
	Backend    string   `toml:"backend" validate:"oneof=file redis mongo none"`
	Dir        string   `toml:"dir"`
	URL        string   `toml:"url" validate:"required_if=Backend redis,required_if=Backend mongo"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	Prefix     string   `toml:"prefix"`
	TTL        Duration `toml:"ttl"`
	Interval   Duration `toml:"checkpoint_interval"`
	Throttle   Throttle `toml:"throttle"`
}

// Throttle rate-limits checkpoint writes.
type Throttle struct {
	Enabled     bool     `toml:"enabled"`
	Concurrency int      `toml:"concurrency" validate:"gte=0"`
	QueueSize   int      `toml:"queue_size" validate:"gte=0"`
	Windows     []Window `toml:"windows" validate:"dive"`
}

// Window is one rate limit.
type Window struct {
	Duration    Duration `toml:"duration"`
	MaxRequests int      `toml:"max_requests" validate:"gt=0"`
}

// Redis configures the pub/sub transport used by "wikigraph worker".
type Redis struct {
	URL     string `toml:"url"`
	Channel string `toml:"channel" validate:"required"`
}

// Watch configures graph file reloading.
type Watch struct {
	Debounce Duration `toml:"debounce"`
}

// Default returns the built-in settings.
func Default() Config {
	dir, _ := CacheDir()
	tc := throttle.Default()
	windows := make([]Window, len(tc.Windows))
	for i, w := range tc.Windows {
		windows[i] = Window{Duration: D(w.Duration), MaxRequests: w.MaxRequests}
	}
	return Config{
		Layout: layout.Options{Seed: 1},
		Animation: Animation{
			Repulsion:     1,
			Attraction:    1,
			Alpha:         worker.DefaultAlpha,
			FrameInterval: D(16 * time.Millisecond),
		},
		Graph: Graph{BaseURL: graph.DefaultBaseURL},
		Server: Server{
			Addr:           ":8080",
			RequestTimeout: D(30 * time.Second),
			WSRate:         100,
			WSBurst:        20,
		},
		Cache: Cache{
			Backend:  cache.BackendFile,
			Dir:      dir,
			Database: appName,
			Prefix:   appName + ":",
			TTL:      D(7 * 24 * time.Hour),
			Interval: D(30 * time.Second),
			Throttle: Throttle{
				Concurrency: tc.Concurrency,
				Windows:     windows,
			},
		},
		Redis: Redis{
			URL:     "redis://localhost:6379/0",
			Channel: appName,
		},
		Watch: Watch{Debounce: D(200 * time.Millisecond)},
	}
}

var validate = validator.New()

// Validate checks every section.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for i, w := range c.Cache.Throttle.Windows {
		if w.Duration.Duration <= 0 {
			return fmt.Errorf("invalid config: cache.throttle.windows[%d]: duration must be positive", i)
		}
	}
	if c.Cache.Throttle.Enabled && c.Cache.Throttle.Concurrency < 1 {
		return fmt.Errorf("invalid config: cache.throttle.concurrency must be at least 1")
	}
	return nil
}

// Load resolves the configuration. An empty path means DefaultPath, which
// may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Derived Settings
// =============================================================================

// CacheOptions returns the settings for cache.Open.
func (c Config) CacheOptions() cache.Options {
	opts := cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		URL:        c.Cache.URL,
		Database:   c.Cache.Database,
		Collection: c.Cache.Collection,
	}
	if c.Cache.Throttle.Enabled {
		tc := c.ThrottleConfig()
		opts.Throttle = &tc
	}
	return opts
}

// ThrottleConfig returns the checkpoint write limits.
func (c Config) ThrottleConfig() throttle.Config {
	t := c.Cache.Throttle
	windows := make([]throttle.Window, len(t.Windows))
	for i, w := range t.Windows {
		windows[i] = throttle.Window{Duration: w.Duration.Duration, MaxRequests: w.MaxRequests}
	}
	return throttle.Config{
		Concurrency: t.Concurrency,
		QueueSize:   t.QueueSize,
		Windows:     windows,
	}
}

// Keyer returns the checkpoint keyer with the configured prefix.
func (c Config) Keyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// AnimatorConfig returns the step loop settings.
func (c Config) AnimatorConfig() worker.AnimatorConfig {
	return worker.AnimatorConfig{
		Repulsion:     c.Animation.Repulsion,
		Attraction:    c.Animation.Attraction,
		Alpha:         c.Animation.Alpha,
		FrameInterval: c.Animation.FrameInterval.Duration,
	}
}

// LinkMapOptions returns the link-map ingestion settings.
func (c Config) LinkMapOptions() graph.LinkMapOptions {
	return graph.LinkMapOptions{
		BaseURL:         c.Graph.BaseURL,
		IncludeChildren: c.Graph.IncludeChildren,
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/wikigraph/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/wikigraph/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
