package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	URL         string `envconfig:"POSTGRES_URL"`
	MaxConns    int32  `envconfig:"POSTGRES_MAX_CONNS" default:"4"`
	DialTimeout int    `envconfig:"POSTGRES_DIAL_TIMEOUT" default:"5"`
}

// New opens a pool and pings it; the pool is closed again if the ping fails.
func (c *Config) New(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, err
	}
	if c.MaxConns > 0 {
		cfg.MaxConns = c.MaxConns
	}
	cfg.ConnConfig.ConnectTimeout = time.Duration(c.DialTimeout) * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
