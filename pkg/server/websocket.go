package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/matzehuels/wikigraph/pkg/rpc"
	"github.com/matzehuels/wikigraph/pkg/worker"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebSocket serves the layout rpc methods on one connection until
// the peer disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	var limiter *rate.Limiter
	if s.opts.WSRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.opts.WSRate), max(s.opts.WSBurst, 1))
	}
	ws := rpc.NewWebSocket(conn, limiter)
	defer ws.Close()

	session := uuid.NewString()
	logger := s.logger.With("session", session)
	logger.Info("websocket session started", "remote", r.RemoteAddr)

	srv := rpc.NewServer(worker.Tag, worker.NewMux(s.layouter), ws, logger)
	defer srv.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-ws.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	_ = srv.Serve(ctx)

	if err := ws.Err(); err != nil {
		logger.Warn("websocket session ended", "err", err)
		return
	}
	logger.Info("websocket session ended")
}
