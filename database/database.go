// Package database defines the command capability a CommandBuilder wraps and
// adapters for database/sql and pgx.
package database

import (
	"context"
	"time"

	"github.com/Konsultn-Engineering/sqlcmd/dialect"
)

// Connection creates commands and transactions bound to one database handle.
type Connection interface {
	CreateCommand() (Command, error)
	Begin(ctx context.Context) (Transaction, error)
	Dialect() dialect.Dialect
	Ping(ctx context.Context) error
	Close() error
}

// Transaction is a unit of work started on a Connection.
type Transaction interface {
	Connection() Connection
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Command holds statement text and parameters and executes them on its connection.
// A Command is not safe for concurrent mutation; Cancel may be called from any goroutine.
type Command interface {
	CommandText() string
	SetCommandText(text string)
	CommandTimeout() time.Duration
	SetCommandTimeout(d time.Duration)
	CommandType() CommandType
	SetCommandType(t CommandType)
	UpdatedRowSource() UpdateRowSource
	SetUpdatedRowSource(s UpdateRowSource)

	Connection() Connection
	Transaction() Transaction
	// SetTransaction binds executions to tx. A nil tx unbinds.
	SetTransaction(tx Transaction) error

	Parameters() *ParameterCollection
	CreateParameter() *Parameter

	Prepare(ctx context.Context) error
	Cancel()
	ExecuteReader(ctx context.Context, behavior CommandBehavior) (Rows, error)
	ExecuteScalar(ctx context.Context) (any, error)
	ExecuteNonQuery(ctx context.Context) (int64, error)
	Close() error
}

// Rows iterates the result of ExecuteReader.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}
