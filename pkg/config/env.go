package config

import (
	"fmt"
	"strconv"
)

// envVar binds one environment variable to a setting.
type envVar struct {
	name  string
	apply func(c *Config, v string) error
}

func str(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func dur(field func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		return field(c).UnmarshalText([]byte(v))
	}
}

func float(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

var envVars = []envVar{
	{"WIKIGRAPH_SEED", func(c *Config, v string) error {
		seed, err := strconv.ParseUint(v, 10, 64)
		c.Layout.Seed = seed
		return err
	}},
	{"WIKIGRAPH_REPULSION", float(func(c *Config) *float64 { return &c.Animation.Repulsion })},
	{"WIKIGRAPH_ATTRACTION", float(func(c *Config) *float64 { return &c.Animation.Attraction })},
	{"WIKIGRAPH_FRAME_INTERVAL", dur(func(c *Config) *Duration { return &c.Animation.FrameInterval })},
	{"WIKIGRAPH_BASE_URL", str(func(c *Config) *string { return &c.Graph.BaseURL })},
	{"WIKIGRAPH_ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"WIKIGRAPH_CACHE_BACKEND", str(func(c *Config) *string { return &c.Cache.Backend })},
	{"WIKIGRAPH_CACHE_DIR", str(func(c *Config) *string { return &c.Cache.Dir })},
	{"WIKIGRAPH_CACHE_URL", str(func(c *Config) *string { return &c.Cache.URL })},
	{"WIKIGRAPH_CACHE_TTL", dur(func(c *Config) *Duration { return &c.Cache.TTL })},
	{"WIKIGRAPH_REDIS_URL", str(func(c *Config) *string { return &c.Redis.URL })},
	{"WIKIGRAPH_REDIS_CHANNEL", str(func(c *Config) *string { return &c.Redis.Channel })},
	{"WIKIGRAPH_WATCH_DEBOUNCE", dur(func(c *Config) *Duration { return &c.Watch.Debounce })},
}

// EnvVars lists the environment variables Load honours.
func EnvVars() []string {
	names := make([]string, len(envVars))
	for i, e := range envVars {
		names[i] = e.name
	}
	return names
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, e := range envVars {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		if err := e.apply(c, v); err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
	}
	return nil
}

