package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestWebSocketRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws := NewWebSocket(conn, rate.NewLimiter(rate.Inf, 1))
		rpcSrv := NewServer("layout", doubleMux(), ws, quietLogger())
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go func() {
			<-ws.Done()
			cancel()
		}()
		_ = rpcSrv.Serve(ctx)
		_ = rpcSrv.Close()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	ws := NewWebSocket(conn, nil)
	defer ws.Close()

	c := Connect("layout", ws, quietLogger())
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, x := range []int{1, 2, 21} {
		n, err := Invoke(ctx, c, double, x)
		require.NoError(t, err)
		assert.Equal(t, 2*x, n)
	}
}

func TestWebSocketSendAfterClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	ws := NewWebSocket(conn, nil)
	require.NoError(t, ws.Send(context.Background(), []byte(`{}`)))
	_ = ws.Close()

	<-ws.Done()
	assert.ErrorIs(t, ws.Send(context.Background(), []byte(`{}`)), ErrClosed)
}
