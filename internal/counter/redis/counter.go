package redis

import (
	"context"
	"fmt"

	"github.com/frahmantamala/project-tracker/internal/counter"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "counter:"

type Counter struct {
	client goredis.UniversalClient
}

func NewCounter(client goredis.UniversalClient) counter.Counter {
	return &Counter{client: client}
}

func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Next relies on INCR being atomic on the server.
func (c *Counter) Next(ctx context.Context, name string) (int64, error) {
	v, err := c.client.Incr(ctx, keyPrefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", name, err)
	}
	return v, nil
}
