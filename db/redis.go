package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis accepts a redis:// URL or a bare host:port.
func ConnectRedis(redisURL string) error {
	if redisURL == "" {
		return fmt.Errorf("redis url is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return err
	}

	Redis = client
	return nil
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}
