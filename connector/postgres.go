package connector

import (
	"context"
	"time"

	"github.com/Konsultn-Engineering/sqlcmd/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProvider opens a pgx connection pool. pgx caches prepared
// statements per connection, so StatementCacheSize does not apply.
type PostgresProvider struct{}

func (PostgresProvider) Connect(ctx context.Context, cfg Config) (database.Connection, error) {
	dsn, err := PostgresDSN(cfg)
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool := withPoolDefaults(cfg.Pool)
	poolCfg.MaxConns = int32(pool.MaxOpen)
	poolCfg.MinConns = int32(pool.MaxIdle)
	poolCfg.MaxConnLifetime = pool.MaxLifetime
	poolCfg.MaxConnIdleTime = pool.MaxIdleTime

	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	return database.NewPgxConnection(p), nil
}

// PostgresDSN returns cfg.DSN when set, otherwise a postgres:// URL built from
// the individual fields.
func PostgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	d := NewDSN("postgres").
		User(cfg.Username, cfg.Password).
		Addr(cfg.Host, port).
		Database(cfg.Database).
		Set("sslmode", cfg.SSLMode).
		SetAll(cfg.Params)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d.String(), nil
}

func withPoolDefaults(pool PoolConfig) PoolConfig {
	if pool.MaxOpen <= 0 {
		pool.MaxOpen = 10
	}
	if pool.MaxIdle < 0 {
		pool.MaxIdle = 0
	}
	if pool.MaxIdle > pool.MaxOpen {
		pool.MaxIdle = pool.MaxOpen
	}
	if pool.MaxLifetime == 0 {
		pool.MaxLifetime = time.Hour
	}
	if pool.MaxIdleTime == 0 {
		pool.MaxIdleTime = 30 * time.Minute
	}
	return pool
}
