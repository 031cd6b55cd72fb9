package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// exercise runs the common contract against a live backend.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := "test:" + uuid.NewString()
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set = hit %v, err %v", hit, err)
	}
	payload := []byte(`[{"id":"A","x":1,"y":2}]`)
	if err := c.Set(ctx, key, payload, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != string(payload) {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key should miss")
	}
}

// TestRedisCache needs a server; set WIKIGRAPH_TEST_REDIS_URL to run it.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("WIKIGRAPH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WIKIGRAPH_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exercise(t, c)
}

// TestMongoCache needs a server; set WIKIGRAPH_TEST_MONGO_URI to run it.
func TestMongoCache(t *testing.T) {
	uri := os.Getenv("WIKIGRAPH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("WIKIGRAPH_TEST_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "wikigraph_test", "")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exercise(t, c)
}
