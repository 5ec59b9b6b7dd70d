package bus

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
)

const changeChannel = "queue.changed"

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return rdb, nil
}

type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context) error {
	return b.rdb.Publish(ctx, changeChannel, "1").Err()
}

// Subscribe returns a coalescing signal channel: bursts of publishes
// collapse into a single pending signal, which is enough because the
// fan-out reloads the whole snapshot each time.
func (b *RedisBus) Subscribe(ctx context.Context) <-chan struct{} {
	sub := b.rdb.Subscribe(ctx, changeChannel)
	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				log.Println("change bus close:", err)
			}
		}()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out
}

var (
	_ Publisher  = (*RedisBus)(nil)
	_ Subscriber = (*RedisBus)(nil)
)
