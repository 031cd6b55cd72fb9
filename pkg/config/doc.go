// Package config loads wikigraph settings.
//
// Settings are resolved in order, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/wikigraph/config.toml
//  3. a .env file in the working directory, if present
//  4. WIKIGRAPH_* environment variables (see [EnvVars])
//
// The result is validated before it is returned. Durations are written as
// strings such as "250ms" or "10s".
//
// Example file:
//
//	[layout]
//	seed = 42
//
//	[animation]
//	repulsion = 1.0
//	attraction = 1.0
//	frame_interval = "16ms"
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//
//	[[cache.throttle.windows]]
//	duration = "10s"
//	max_requests = 19
package config
