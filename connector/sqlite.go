package connector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Konsultn-Engineering/sqlcmd/cache"
	"github.com/Konsultn-Engineering/sqlcmd/database"
	"github.com/Konsultn-Engineering/sqlcmd/dialect"
	_ "modernc.org/sqlite"
)

const memoryDSN = ":memory:"

// SQLiteProvider opens an embedded SQLite database. The file comes from DSN,
// then Database, and defaults to an in-memory database.
type SQLiteProvider struct{}

func (SQLiteProvider) Connect(ctx context.Context, cfg Config) (database.Connection, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = cfg.Database
	}
	if dsn == "" {
		dsn = memoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	applyPool(db, cfg.Pool)
	if dsn == memoryDSN {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	stmts, err := statementCache(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	return database.NewSqlConnection(db, dialect.NewSQLiteDialect(), stmts), nil
}

func applyPool(db *sql.DB, pool PoolConfig) {
	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.MaxIdleTime)
	}
}

func statementCache(cfg Config) (*cache.StatementCache, error) {
	if cfg.StatementCacheSize == 0 {
		return nil, nil
	}
	stmts, err := cache.NewStatementCache(cfg.StatementCacheSize)
	if err != nil {
		return nil, fmt.Errorf("statement cache: %w", err)
	}
	return stmts, nil
}
