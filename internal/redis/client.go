package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/timvest/intake-server-go/internal/config"
)

// Client backs the redis application store.
type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), config.StorePingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

const (
	ApplicationSequenceKey  = "applications:seq"
	ApplicationIndexKey     = "applications:ids"
	ApplicationRecordPrefix = "application:"
)

func ApplicationKey(id int64) string {
	return fmt.Sprintf("%s%d", ApplicationRecordPrefix, id)
}
