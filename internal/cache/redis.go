// Package cache holds the Redis connection pool.
package cache

import (
	"fmt"

	"carty/config"

	radix "github.com/mediocregopher/radix/v3"
)

// NewPool dials a radix pool. Callers decide what to do when Redis is not
// configured; this returns an error for an empty address.
func NewPool(cfg *config.RedisConfig) (radix.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address not configured")
	}
	size := cfg.PoolSize
	if size <= 0 {
		size = 10
	}
	pool, err := radix.NewPool("tcp", cfg.Addr, size)
	if err != nil {
		return nil, fmt.Errorf("redis pool %s: %w", cfg.Addr, err)
	}
	return pool, nil
}
