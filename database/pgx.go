package database

import (
	"context"

	"github.com/Konsultn-Engineering/sqlcmd/dialect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConnection implements Connection for pgxpool.Pool.
type PgxConnection struct {
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

// NewPgxConnection creates a new PgxConnection.
func NewPgxConnection(pool *pgxpool.Pool) *PgxConnection {
	return &PgxConnection{pool: pool, dialect: dialect.NewPostgresDialect()}
}

func (p *PgxConnection) CreateCommand() (Command, error) {
	return &PgxCommand{commandState: newCommandState(), conn: p}, nil
}

func (p *PgxConnection) Begin(ctx context.Context) (Transaction, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &PgxTransaction{tx: tx, conn: p}, nil
}

func (p *PgxConnection) Dialect() dialect.Dialect { return p.dialect }

// Ping verifies the connection to the database is alive.
func (p *PgxConnection) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

// Pool returns the underlying pool.
func (p *PgxConnection) Pool() *pgxpool.Pool { return p.pool }

// Close closes the pool.
func (p *PgxConnection) Close() error {
	p.pool.Close()
	return nil
}

// PgxTransaction implements Transaction for pgx.Tx.
type PgxTransaction struct {
	tx   pgx.Tx
	conn *PgxConnection
}

func (t *PgxTransaction) Connection() Connection             { return t.conn }
func (t *PgxTransaction) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *PgxTransaction) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// pgxExecutor is satisfied by *pgxpool.Pool and pgx.Tx.
type pgxExecutor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgxCommand implements Command on a PgxConnection.
type PgxCommand struct {
	*commandState
	conn *PgxConnection
	tx   *PgxTransaction
}

func (c *PgxCommand) Connection() Connection { return c.conn }

func (c *PgxCommand) Transaction() Transaction {
	if c.tx == nil {
		return nil
	}
	return c.tx
}

func (c *PgxCommand) SetTransaction(tx Transaction) error {
	if tx == nil {
		c.tx = nil
		return nil
	}
	pt, ok := tx.(*PgxTransaction)
	if !ok || pt.conn != c.conn {
		return ErrTransactionMismatch
	}
	c.tx = pt
	return nil
}

// Prepare validates the command; pgx prepares and caches statements on its own.
func (c *PgxCommand) Prepare(ctx context.Context) error {
	_, err := c.statement(c.conn.dialect)
	return err
}

func (c *PgxCommand) executor() pgxExecutor {
	if c.tx != nil {
		return c.tx.tx
	}
	return c.conn.pool
}

// pgxArgs binds named parameters through pgx.NamedArgs, which rewrites @name
// placeholders, and unnamed parameters positionally.
func pgxArgs(params *ParameterCollection) ([]any, error) {
	named := params.named()
	switch {
	case params.Len() == 0:
		return nil, nil
	case named == params.Len():
		args := make(pgx.NamedArgs, named)
		for _, p := range params.items {
			args[p.BareName()] = p.Value
		}
		return []any{args}, nil
	case named == 0:
		args := make([]any, 0, params.Len())
		for _, p := range params.items {
			args = append(args, p.Value)
		}
		return args, nil
	default:
		return nil, ErrMixedParameters
	}
}

func (c *PgxCommand) ExecuteReader(ctx context.Context, behavior CommandBehavior) (Rows, error) {
	query, err := c.statement(c.conn.dialect)
	if err != nil {
		return nil, err
	}
	args, err := pgxArgs(c.params)
	if err != nil {
		return nil, err
	}

	ctx, done := c.begin(ctx)
	rows, err := c.executor().Query(ctx, query, args...)
	if err != nil {
		done()
		return nil, err
	}

	hooks := []func() error{func() error { done(); return nil }}
	if behavior.Has(CloseConnection) {
		hooks = append(hooks, c.conn.Close)
	}
	return wrapRows(&PgxRows{rows: rows}, behavior, hooks...), nil
}

func (c *PgxCommand) ExecuteScalar(ctx context.Context) (any, error) {
	rows, err := c.ExecuteReader(ctx, SingleRow)
	if err != nil {
		return nil, err
	}
	return scalar(rows)
}

func (c *PgxCommand) ExecuteNonQuery(ctx context.Context) (int64, error) {
	query, err := c.statement(c.conn.dialect)
	if err != nil {
		return 0, err
	}
	args, err := pgxArgs(c.params)
	if err != nil {
		return 0, err
	}

	ctx, done := c.begin(ctx)
	defer done()

	tag, err := c.executor().Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *PgxCommand) Close() error {
	if c.closed {
		return nil
	}
	c.Cancel()
	c.closed = true
	return nil
}

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows              pgx.Rows
	fieldDescriptions []pgconn.FieldDescription
}

// Next prepares the next result row for reading.
func (p *PgxRows) Next() bool { return p.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (p *PgxRows) Scan(dest ...any) error { return p.rows.Scan(dest...) }

func (p *PgxRows) Err() error { return p.rows.Err() }

// Close closes the rows iterator.
func (p *PgxRows) Close() error { p.rows.Close(); return nil }

// Columns returns the column names.
func (p *PgxRows) Columns() ([]string, error) {
	if p.fieldDescriptions == nil {
		p.fieldDescriptions = p.rows.FieldDescriptions()
	}
	columns := make([]string, len(p.fieldDescriptions))
	for i, fd := range p.fieldDescriptions {
		columns[i] = fd.Name
	}
	return columns, nil
}

var (
	_ Connection  = (*PgxConnection)(nil)
	_ Command     = (*PgxCommand)(nil)
	_ Transaction = (*PgxTransaction)(nil)
	_ Rows        = (*PgxRows)(nil)
)
