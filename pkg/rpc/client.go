package rpc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	apperr "github.com/matzehuels/wikigraph/pkg/errors"
	"github.com/matzehuels/wikigraph/pkg/observability"
)

// Client issues requests over a transport and matches replies to callers by
// correlation id. It is safe for concurrent use.
type Client struct {
	tag    string
	t      Transport
	logger *log.Logger
	stop   func()

	mu      sync.Mutex
	pending map[string]chan Message
	closed  bool
}

// Connect attaches a client for the given tag to t. A nil logger uses
// log.Default().
func Connect(tag string, t Transport, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	c := &Client{
		tag:     tag,
		t:       t,
		logger:  logger,
		pending: make(map[string]chan Message),
	}
	c.stop = t.Listen(c.receive)
	return c
}

// Tag returns the discriminator this client sends and accepts.
func (c *Client) Tag() string { return c.tag }

// Call sends op with args and decodes the reply into result, which may be
// nil when the result is not needed. Call returns when the matching reply
// arrives or ctx is done; in the latter case the pending slot is released
// and the error carries code TIMEOUT or CANCELED. Errors sent by the server
// are returned as *errors.Error with their original code.
func (c *Client) Call(ctx context.Context, op string, args, result any) (err error) {
	start := time.Now()
	defer func() { observability.Channel().OnCall(ctx, op, time.Since(start), err) }()

	var raw json.RawMessage
	if args != nil {
		if raw, err = json.Marshal(args); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "encode %s args", op)
		}
	}
	id := uuid.NewString()
	frame, err := json.Marshal(Message{Op: op, Args: raw, Tag: c.tag, ID: id})
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInternal, err, "encode %s request", op)
	}

	ch := make(chan Message, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()
	defer c.forget(id)

	if err := c.t.Send(ctx, frame); err != nil {
		if ctx.Err() != nil {
			return apperr.FromContext(ctx.Err(), "call %s", op)
		}
		return apperr.Wrap(apperr.ErrCodeNetwork, err, "send %s", op)
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if reply.Error != nil {
			return reply.Error.Err()
		}
		if result != nil && len(reply.Result) > 0 {
			if err := json.Unmarshal(reply.Result, result); err != nil {
				return apperr.Wrap(apperr.ErrCodeInternal, err, "decode %s result", op)
			}
		}
		return nil
	case <-ctx.Done():
		return apperr.FromContext(ctx.Err(), "call %s", op)
	}
}

// Pending returns the number of calls awaiting a reply.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close detaches the client from its transport and fails all pending calls
// with ErrClosed. The transport itself is left open.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
	c.stop()
	return nil
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) receive(frame []byte) {
	m, err := decode(frame)
	if err != nil {
		c.logger.Debug("rpc: dropping undecodable frame", "err", err)
		return
	}
	if m.Tag != c.tag || m.IsRequest() {
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[m.ID]
	if ok {
		delete(c.pending, m.ID)
		ch <- m
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Warn("rpc: unmatched reply", "tag", m.Tag, "id", m.ID)
		observability.Channel().OnUnmatchedReply(context.Background(), m.Tag, m.ID)
	}
}
