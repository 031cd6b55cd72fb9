package rpc

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	apperr "github.com/matzehuels/wikigraph/pkg/errors"
)

// Method names a typed operation: A is the argument type, R the result.
type Method[A, R any] struct {
	Name string
}

// Invoke calls m on c with typed arguments and result.
func Invoke[A, R any](ctx context.Context, c *Client, m Method[A, R], args A) (R, error) {
	var r R
	err := c.Call(ctx, m.Name, args, &r)
	return r, err
}

type opFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Mux is a Handler that routes requests by operation name.
type Mux struct {
	mu  sync.RWMutex
	ops map[string]opFunc
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{ops: make(map[string]opFunc)}
}

// Handle registers fn under name. Arguments are decoded into A; an empty or
// null payload leaves A at its zero value. Registering a name twice
// replaces the earlier function.
func Handle[A, R any](mux *Mux, name string, fn func(ctx context.Context, args A) (R, error)) {
	mux.mu.Lock()
	defer mux.mu.Unlock()
	mux.ops[name] = func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args A
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode %s args", name)
			}
		}
		return fn(ctx, args)
	}
}

// ServeOp dispatches to the function registered for op.
func (m *Mux) ServeOp(ctx context.Context, op string, args json.RawMessage) (any, error) {
	m.mu.RLock()
	fn, ok := m.ops[op]
	m.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.ErrCodeUnknownOp, "unknown operation %q", op)
	}
	return fn(ctx, args)
}

// Ops returns the registered operation names, sorted.
func (m *Mux) Ops() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.ops))
	for name := range m.ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
