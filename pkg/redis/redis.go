package redis

import (
	"context"
	"crypto/tls"
	"runtime"
	"strings"
	"time"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/go-redis/redis/v8"
)

const minClusterNodes = 2

type redisDB struct {
	client redis.UniversalClient
}

// New initializes a pool redis client connections. It returns nil when no address is configured
// so callers fall back to in-process caching.
func New(ctx context.Context, cfg *config.Config, logger lumber.Logger) (core.RedisDB, error) {
	if cfg.Redis.Addr == "" {
		logger.Infof("Redis address not configured, skipping redis client")
		return nil, nil
	}
	addrs := strings.Split(cfg.Redis.Addr, ",")

	if len(addrs) >= minClusterNodes {
		logger.Debugf("Creating Redis Cluster Client")
	} else {
		logger.Debugf("Creating Redis Client")
	}

	options := &redis.UniversalOptions{
		Addrs:              addrs,
		Username:           cfg.Redis.Username,
		IdleTimeout:        5 * time.Minute,
		IdleCheckFrequency: 1 * time.Minute,
		// 4 connections per every available CPU as reported by runtime.GOMAXPROCS
		PoolSize:   4 * runtime.GOMAXPROCS(0),
		MaxRetries: 3,
	}

	if cfg.Env != constants.Dev {
		options.Password = cfg.Redis.Password
		if cfg.Redis.TLS {
			options.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}
	}

	// if the number of Addrs is two or more, a ClusterClient is returned
	// otherwise a single-node Client is returned.
	client := redis.NewUniversalClient(options)

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}
	logger.Infof("Redis connection created successfully.")

	return &redisDB{
		client: client,
	}, nil
}

// Wrap exposes an existing client as core.RedisDB.
func Wrap(client redis.UniversalClient) core.RedisDB {
	return &redisDB{client: client}
}

// Client exposes redis client interface
func (r *redisDB) Client() redis.UniversalClient {
	return r.client
}
