package core

import "github.com/go-redis/redis/v8"

// RedisDB wrapper around the redis db client.
type RedisDB interface {
	// Client is the redis client
	Client() redis.UniversalClient
}
