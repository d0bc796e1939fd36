package config

// This file defines a Redis client constructor for the application.  Redis
// backs the token revocation cache (consulted on every protected request),
// distributed rate limiting and the public response cache.

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection parameters for the Redis server.
//
//	REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR – host:port shorthand (host/port take precedence when both are set)
//	REDIS_PASSWORD – optional password
//	REDIS_DB – database number (default 0)
//	REDIS_TLS – enable TLS
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	TLS      bool   `env:"TLS" envDefault:"false"`
}

// Address resolves the host:port pair to dial.
func (r RedisConfig) Address() string {
	addr := r.Addr
	if r.Host != "" && r.Port != "" {
		addr = r.Host + ":" + r.Port
	}
	if strings.TrimSpace(addr) == "" {
		addr = "localhost:6379"
	}
	return addr
}

// NewRedisClient instantiates a Redis client and verifies it with a ping.
// Unlike the cache and the rate limiter, token revocation cannot degrade
// gracefully, so a failed ping is reported to the caller.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Address(),
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	// Ping the server with a short timeout.
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Address(), err)
	}
	return client, nil
}
