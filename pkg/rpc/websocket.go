package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// WebSocket is a Transport over a single websocket connection. Frames are
// sent as text messages. An optional limiter bounds the rate at which
// inbound frames are dispatched.
type WebSocket struct {
	listeners
	conn    *websocket.Conn
	limiter *rate.Limiter

	writeMu sync.Mutex

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
}

// NewWebSocket wraps conn and starts its read loop. limiter may be nil.
func NewWebSocket(conn *websocket.Conn, limiter *rate.Limiter) *WebSocket {
	ctx, cancel := context.WithCancel(context.Background())
	ws := &WebSocket{
		conn:    conn,
		limiter: limiter,
		ctx:     ctx,
		cancel:  cancel,
	}
	go ws.readLoop()
	return ws
}

func (w *WebSocket) readLoop() {
	defer w.Close()
	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			w.fail(err)
			return
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(w.ctx); err != nil {
				return
			}
		}
		w.dispatch(data)
	}
}

// Send writes frame as one text message. A ctx deadline becomes the write
// deadline.
func (w *WebSocket) Send(ctx context.Context, frame []byte) error {
	if w.ctx.Err() != nil {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	deadline, _ := ctx.Deadline()
	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, frame)
}

// Listen registers fn for inbound frames.
func (w *WebSocket) Listen(fn func([]byte)) func() { return w.add(fn) }

// Done is closed once the connection has ended.
func (w *WebSocket) Done() <-chan struct{} { return w.ctx.Done() }

// Err returns the error that ended the read loop, if any.
func (w *WebSocket) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

func (w *WebSocket) fail(err error) {
	w.errMu.Lock()
	if w.err == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		w.err = err
	}
	w.errMu.Unlock()
}

// Close sends a close message and closes the connection.
func (w *WebSocket) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancel()
		w.writeMu.Lock()
		_ = w.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		w.writeMu.Unlock()
		err = w.conn.Close()
	})
	return err
}
