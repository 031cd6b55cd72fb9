package rpc

import (
	"bytes"
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when sending on, or calling through, a closed
// transport or client.
var ErrClosed = errors.New("rpc: closed")

// Transport carries opaque frames between two parties. Every sent frame
// must be delivered to the peer's listeners at most once; ordering is not
// required.
type Transport interface {
	// Send delivers frame to the peer.
	Send(ctx context.Context, frame []byte) error

	// Listen registers fn for every frame received from the peer and
	// returns a function that unregisters it. fn may be called from any
	// goroutine and must not block for long.
	Listen(fn func(frame []byte)) (stop func())

	// Close releases the transport.
	Close() error
}

// listeners is a set of frame callbacks shared by the transports.
type listeners struct {
	mu   sync.RWMutex
	next int
	fns  map[int]func([]byte)
}

func (l *listeners) add(fn func([]byte)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func([]byte))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

func (l *listeners) dispatch(frame []byte) {
	l.mu.RLock()
	fns := make([]func([]byte), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.RUnlock()
	for _, fn := range fns {
		fn(frame)
	}
}

// =============================================================================
// Pipe
// =============================================================================

// pipeEnd is one side of an in-process pipe. Frames are copied on send and
// delivered synchronously to the peer's listeners.
type pipeEnd struct {
	listeners
	peer *pipeEnd

	mu     sync.RWMutex
	closed bool
}

// NewPipe returns two connected in-process transports: frames sent on a
// arrive at b's listeners and vice versa.
func NewPipe() (a, b Transport) {
	x, y := &pipeEnd{}, &pipeEnd{}
	x.peer, y.peer = y, x
	return x, y
}

func (p *pipeEnd) Send(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	p.peer.dispatch(bytes.Clone(frame))
	return nil
}

func (p *pipeEnd) Listen(fn func([]byte)) func() { return p.add(fn) }

func (p *pipeEnd) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}
