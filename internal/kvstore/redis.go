package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis client.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, ns, key string) (string, error) {
	val, err := r.client.Get(ctx, compose(ns, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, ns, key, value string) error {
	return r.client.Set(ctx, compose(ns, key), value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, ns, key string) error {
	return r.client.Del(ctx, compose(ns, key)).Err()
}

func (r *Redis) SAdd(ctx context.Context, ns, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return r.client.SAdd(ctx, compose(ns, key), args...).Err()
}

func (r *Redis) SRem(ctx context.Context, ns, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return r.client.SRem(ctx, compose(ns, key), args...).Err()
}

func (r *Redis) SMembers(ctx context.Context, ns, key string) ([]string, error) {
	return r.client.SMembers(ctx, compose(ns, key)).Result()
}
