package rpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisChannels returns the request and reply channel names for prefix.
// Clients send on requests and receive on replies; servers do the reverse.
func RedisChannels(prefix string) (requests, replies string) {
	return prefix + ":requests", prefix + ":replies"
}

// Redis is a Transport over a pair of Redis pub/sub channels. Frames
// published while no subscriber is listening are lost, as with any Redis
// pub/sub delivery.
type Redis struct {
	listeners
	client redis.UniversalClient
	send   string
	sub    *redis.PubSub

	closeOnce sync.Once
	done      chan struct{}
}

// NewRedis subscribes to recvChannel and publishes on sendChannel. It
// returns once the subscription is confirmed.
func NewRedis(ctx context.Context, client redis.UniversalClient, sendChannel, recvChannel string) (*Redis, error) {
	sub := client.Subscribe(ctx, recvChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", recvChannel, err)
	}
	r := &Redis{
		client: client,
		send:   sendChannel,
		sub:    sub,
		done:   make(chan struct{}),
	}
	go r.loop()
	return r, nil
}

func (r *Redis) loop() {
	defer close(r.done)
	for msg := range r.sub.Channel() {
		r.dispatch([]byte(msg.Payload))
	}
}

// Send publishes frame.
func (r *Redis) Send(ctx context.Context, frame []byte) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	if err := r.client.Publish(ctx, r.send, frame).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.send, err)
	}
	return nil
}

// Listen registers fn for inbound frames.
func (r *Redis) Listen(fn func([]byte)) func() { return r.add(fn) }

// Close ends the subscription. The client is not closed.
func (r *Redis) Close() error {
	var err error
	r.closeOnce.Do(func() { err = r.sub.Close() })
	return err
}
