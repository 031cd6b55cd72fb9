// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends to the core packages.
// Consumers register hooks at startup to receive events about layout steps,
// channel calls, scheduler dispatches, cache operations and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [Prometheus] implements every hook interface on top of a
// prometheus.Registerer; see [NewPrometheus].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    p := observability.NewPrometheus(prometheus.NewRegistry())
//	    observability.SetAll(p)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnStep(ctx, nodes, elapsed, energy)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from engine hosts.
type LayoutHooks interface {
	// OnGraphLoaded records a whole-graph replacement.
	OnGraphLoaded(ctx context.Context, nodes, edges, components int)

	// OnStep records one relaxation pass.
	OnStep(ctx context.Context, nodes int, duration time.Duration, energy float64)
}

// =============================================================================
// Channel Hooks
// =============================================================================

// ChannelHooks receives events from the request/response channel.
type ChannelHooks interface {
	// OnCall records a completed client call.
	OnCall(ctx context.Context, op string, duration time.Duration, err error)

	// OnServe records a request handled by a server.
	OnServe(ctx context.Context, op string, duration time.Duration, err error)

	// OnUnmatchedReply records a reply that carried the client's tag but no
	// pending correlation id: a late reply after a timeout, or a protocol bug.
	OnUnmatchedReply(ctx context.Context, tag, id string)
}

// =============================================================================
// Throttle Hooks
// =============================================================================

// ThrottleHooks receives events from rate-limited schedulers.
type ThrottleHooks interface {
	// OnQueued records the queue depth after an enqueue.
	OnQueued(ctx context.Context, depth int)

	// OnDispatch records a dispatch and how long the call waited in queue.
	OnDispatch(ctx context.Context, inflight int, wait time.Duration)

	// OnComplete records a finished call.
	OnComplete(ctx context.Context, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, backend string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, backend string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnResponse records a served HTTP response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnGraphLoaded(context.Context, int, int, int)        {}
func (NoopLayoutHooks) OnStep(context.Context, int, time.Duration, float64) {}

// NoopChannelHooks is a no-op implementation of ChannelHooks.
type NoopChannelHooks struct{}

func (NoopChannelHooks) OnCall(context.Context, string, time.Duration, error)  {}
func (NoopChannelHooks) OnServe(context.Context, string, time.Duration, error) {}
func (NoopChannelHooks) OnUnmatchedReply(context.Context, string, string)      {}

// NoopThrottleHooks is a no-op implementation of ThrottleHooks.
type NoopThrottleHooks struct{}

func (NoopThrottleHooks) OnQueued(context.Context, int)                    {}
func (NoopThrottleHooks) OnDispatch(context.Context, int, time.Duration)   {}
func (NoopThrottleHooks) OnComplete(context.Context, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	channelHooks  ChannelHooks  = NoopChannelHooks{}
	throttleHooks ThrottleHooks = NoopThrottleHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetChannelHooks registers custom channel hooks.
func SetChannelHooks(h ChannelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		channelHooks = h
	}
}

// SetThrottleHooks registers custom scheduler hooks.
func SetThrottleHooks(h ThrottleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		throttleHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// AllHooks is implemented by backends that cover every event category.
type AllHooks interface {
	LayoutHooks
	ChannelHooks
	ThrottleHooks
	CacheHooks
	HTTPHooks
}

// SetAll registers h for every category.
func SetAll(h AllHooks) {
	SetLayoutHooks(h)
	SetChannelHooks(h)
	SetThrottleHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Channel returns the registered channel hooks.
func Channel() ChannelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return channelHooks
}

// Throttle returns the registered scheduler hooks.
func Throttle() ThrottleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return throttleHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	channelHooks = NoopChannelHooks{}
	throttleHooks = NoopThrottleHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
