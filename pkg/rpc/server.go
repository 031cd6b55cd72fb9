package rpc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/wikigraph/pkg/errors"
	"github.com/matzehuels/wikigraph/pkg/observability"
)

// Handler serves one decoded request. The returned value is JSON-encoded
// into the reply; a non-nil error is sent as a coded error instead.
type Handler interface {
	ServeOp(ctx context.Context, op string, args json.RawMessage) (any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, op string, args json.RawMessage) (any, error)

// ServeOp calls f.
func (f HandlerFunc) ServeOp(ctx context.Context, op string, args json.RawMessage) (any, error) {
	return f(ctx, op, args)
}

const inboxSize = 64

// Server answers requests bearing its tag. Requests are handled one at a
// time in the order they were received.
type Server struct {
	tag    string
	t      Transport
	logger *log.Logger
	inbox  chan Message
	stop   func()

	done      chan struct{}
	closeOnce sync.Once

	mu      sync.RWMutex
	handler Handler
}

// NewServer creates a server for tag. A nil logger uses log.Default().
func NewServer(tag string, h Handler, t Transport, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		tag:     tag,
		t:       t,
		logger:  logger,
		inbox:   make(chan Message, inboxSize),
		done:    make(chan struct{}),
		handler: h,
	}
	s.stop = t.Listen(s.receive)
	return s
}

// receive queues matching requests. It starts listening at construction so
// requests sent before Serve runs are not lost.
func (s *Server) receive(frame []byte) {
	m, err := decode(frame)
	if err != nil {
		s.logger.Debug("rpc: dropping undecodable frame", "err", err)
		return
	}
	if m.Tag != s.tag || !m.IsRequest() {
		s.logger.Debug("rpc: ignoring frame", "tag", m.Tag, "id", m.ID)
		return
	}
	select {
	case s.inbox <- m:
	case <-s.done:
	}
}

// SetHandler replaces the served implementation. Requests already being
// handled finish on the old handler.
func (s *Server) SetHandler(h Handler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

func (s *Server) currentHandler() Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

// Serve processes requests until ctx is done or the server is closed. It
// returns nil on cancellation and ErrClosed after Close.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Debug("rpc: serving", "tag", s.tag)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return ErrClosed
		case m := <-s.inbox:
			s.handle(ctx, m)
		}
	}
}

// Close stops listening on the transport and ends Serve. Queued requests
// are dropped unanswered.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.stop()
	})
	return nil
}

func (s *Server) handle(ctx context.Context, m Message) {
	start := time.Now()
	res, err := s.invoke(ctx, m)

	reply := Message{Tag: s.tag, ID: m.ID}
	if err == nil {
		if reply.Result, err = json.Marshal(res); err != nil {
			err = apperr.Wrap(apperr.ErrCodeInternal, err, "encode %s result", m.Op)
		}
	}
	if err != nil {
		reply.Result = nil
		reply.Error = apperr.ToWire(err)
	}
	observability.Channel().OnServe(ctx, m.Op, time.Since(start), err)

	frame, encErr := json.Marshal(reply)
	if encErr != nil {
		s.logger.Error("rpc: encode reply", "op", m.Op, "err", encErr)
		return
	}
	if sendErr := s.t.Send(ctx, frame); sendErr != nil {
		s.logger.Warn("rpc: send reply", "op", m.Op, "id", m.ID, "err", sendErr)
	}
}

func (s *Server) invoke(ctx context.Context, m Message) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("rpc: handler panic", "op", m.Op, "panic", r)
			err = apperr.New(apperr.ErrCodeInternal, "handler panic: %v", r)
		}
	}()
	h := s.currentHandler()
	if h == nil {
		return nil, apperr.New(apperr.ErrCodeUnknownOp, "no handler for %q", m.Op)
	}
	return h.ServeOp(ctx, m.Op, m.Args)
}
