package rpc

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisChannels(t *testing.T) {
	req, rep := RedisChannels("wikigraph")
	assert.Equal(t, "wikigraph:requests", req)
	assert.Equal(t, "wikigraph:replies", rep)
}

// TestRedisRoundTrip needs a server; set WIKIGRAPH_TEST_REDIS_URL to run it.
func TestRedisRoundTrip(t *testing.T) {
	url := os.Getenv("WIKIGRAPH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WIKIGRAPH_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, rep := RedisChannels("test:" + uuid.NewString())
	serverSide, err := NewRedis(ctx, client, rep, req)
	require.NoError(t, err)
	defer serverSide.Close()
	clientSide, err := NewRedis(ctx, client, req, rep)
	require.NoError(t, err)
	defer clientSide.Close()

	srv := NewServer("layout", doubleMux(), serverSide, quietLogger())
	serve(t, srv)
	c := Connect("layout", clientSide, quietLogger())
	defer c.Close()

	n, err := Invoke(ctx, c, double, 7)
	require.NoError(t, err)
	assert.Equal(t, 14, n)
}
