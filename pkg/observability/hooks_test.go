package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnGraphLoaded(ctx, 10, 20, 2)
	l.OnStep(ctx, 10, time.Millisecond, 0.5)

	// Channel hooks
	c := NoopChannelHooks{}
	c.OnCall(ctx, "step", time.Millisecond, nil)
	c.OnServe(ctx, "step", time.Millisecond, nil)
	c.OnUnmatchedReply(ctx, "layout", "id")

	// Throttle hooks
	th := NoopThrottleHooks{}
	th.OnQueued(ctx, 3)
	th.OnDispatch(ctx, 1, time.Second)
	th.OnComplete(ctx, time.Second, nil)

	// Cache hooks
	ca := NoopCacheHooks{}
	ca.OnCacheHit(ctx, "file")
	ca.OnCacheMiss(ctx, "redis")
	ca.OnCacheSet(ctx, "mongo", 1024)

	// HTTP hooks
	NoopHTTPHooks{}.OnResponse(ctx, "GET", "/api/frame", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()
	defer Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Channel().(NoopChannelHooks); !ok {
		t.Error("Channel() should return NoopChannelHooks by default")
	}
	if _, ok := Throttle().(NoopThrottleHooks); !ok {
		t.Error("Throttle() should return NoopThrottleHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customChannel := &testChannelHooks{}
	SetChannelHooks(customChannel)
	if Channel() != customChannel {
		t.Error("SetChannelHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	p := NewPrometheus(prometheus.NewRegistry())

	p.OnGraphLoaded(ctx, 42, 80, 3)
	p.OnStep(ctx, 42, 2*time.Millisecond, 1.5)
	p.OnStep(ctx, 42, 2*time.Millisecond, 0.5)
	p.OnCall(ctx, "step", time.Millisecond, nil)
	p.OnCall(ctx, "step", time.Millisecond, errors.New("boom"))
	p.OnUnmatchedReply(ctx, "layout", "abc")
	p.OnCacheSet(ctx, "redis", 100)
	p.OnCacheSet(ctx, "redis", 50)
	p.OnResponse(ctx, "GET", "/api/frame", 200, time.Millisecond)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"nodes", p.GraphNodes, 42},
		{"components", p.GraphComponents, 3},
		{"steps", p.Steps, 2},
		{"energy", p.StepEnergy, 0.5},
		{"ok calls", p.Calls.WithLabelValues("step", "ok"), 1},
		{"failed calls", p.Calls.WithLabelValues("step", "error"), 1},
		{"unmatched", p.UnmatchedReplies.WithLabelValues("layout"), 1},
		{"cache bytes", p.CacheBytes.WithLabelValues("redis"), 150},
		{"http", p.HTTPRequests.WithLabelValues("GET", "/api/frame", "200"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSetAll(t *testing.T) {
	Reset()
	defer Reset()

	p := NewPrometheus(prometheus.NewRegistry())
	SetAll(p)
	if Layout() != p || Channel() != p || Throttle() != p || Cache() != p || HTTP() != p {
		t.Error("SetAll should register every category")
	}
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testChannelHooks struct{ NoopChannelHooks }
