package database

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/sqlcmd/cache"
	"github.com/Konsultn-Engineering/sqlcmd/dialect"
)

// SqlConnection implements Connection for *sql.DB.
type SqlConnection struct {
	db      *sql.DB
	dialect dialect.Dialect
	stmts   *cache.StatementCache
}

// NewSqlConnection wraps db. stmts may be nil, in which case prepared
// statements live on the command that prepared them.
func NewSqlConnection(db *sql.DB, d dialect.Dialect, stmts *cache.StatementCache) *SqlConnection {
	return &SqlConnection{db: db, dialect: d, stmts: stmts}
}

// CreateCommand returns a new command bound to this connection.
func (c *SqlConnection) CreateCommand() (Command, error) {
	return &SqlCommand{commandState: newCommandState(), conn: c}, nil
}

// Begin starts a transaction.
func (c *SqlConnection) Begin(ctx context.Context) (Transaction, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &SqlTransaction{tx: tx, conn: c}, nil
}

func (c *SqlConnection) Dialect() dialect.Dialect { return c.dialect }

// Ping verifies the connection to the database is alive.
func (c *SqlConnection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

// DB returns the underlying *sql.DB.
func (c *SqlConnection) DB() *sql.DB { return c.db }

// Close releases cached statements and closes the database.
func (c *SqlConnection) Close() error {
	if c.stmts != nil {
		if err := c.stmts.Close(); err != nil {
			return err
		}
	}
	return c.db.Close()
}

// SqlTransaction implements Transaction for *sql.Tx.
type SqlTransaction struct {
	tx   *sql.Tx
	conn *SqlConnection
}

func (t *SqlTransaction) Connection() Connection             { return t.conn }
func (t *SqlTransaction) Commit(ctx context.Context) error   { return t.tx.Commit() }
func (t *SqlTransaction) Rollback(ctx context.Context) error { return t.tx.Rollback() }

// sqlExecutor is satisfied by *sql.DB, *sql.Tx and *sql.Stmt wrappers below.
type sqlExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// stmtExecutor adapts a prepared statement to sqlExecutor; the query text is ignored.
type stmtExecutor struct {
	stmt *sql.Stmt
}

func (s stmtExecutor) QueryContext(ctx context.Context, _ string, args ...any) (*sql.Rows, error) {
	return s.stmt.QueryContext(ctx, args...)
}

func (s stmtExecutor) ExecContext(ctx context.Context, _ string, args ...any) (sql.Result, error) {
	return s.stmt.ExecContext(ctx, args...)
}

// SqlCommand implements Command on a SqlConnection.
type SqlCommand struct {
	*commandState
	conn *SqlConnection
	tx   *SqlTransaction

	// prepared is used when the connection has no statement cache.
	prepared     *sql.Stmt
	preparedText string
}

func (c *SqlCommand) Connection() Connection { return c.conn }

func (c *SqlCommand) Transaction() Transaction {
	if c.tx == nil {
		return nil
	}
	return c.tx
}

func (c *SqlCommand) SetTransaction(tx Transaction) error {
	if tx == nil {
		c.tx = nil
		return nil
	}
	st, ok := tx.(*SqlTransaction)
	if !ok || st.conn != c.conn {
		return ErrTransactionMismatch
	}
	c.tx = st
	return nil
}

// Prepare creates a prepared statement for the current text.
func (c *SqlCommand) Prepare(ctx context.Context) error {
	query, err := c.statement(c.conn.dialect)
	if err != nil {
		return err
	}

	if c.conn.stmts != nil {
		_, err := c.conn.stmts.GetOrPrepare(ctx, c.conn.db, query)
		return err
	}

	if c.prepared != nil && c.preparedText == query {
		return nil
	}
	stmt, err := c.conn.db.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	c.releasePrepared()
	c.prepared, c.preparedText = stmt, query
	return nil
}

func (c *SqlCommand) releasePrepared() {
	if c.prepared != nil {
		c.prepared.Close()
		c.prepared, c.preparedText = nil, ""
	}
}

// executor picks the prepared statement for query when there is one,
// scoped to the bound transaction.
func (c *SqlCommand) executor(ctx context.Context, query string) sqlExecutor {
	var stmt *sql.Stmt
	if c.conn.stmts != nil {
		stmt, _ = c.conn.stmts.Get(query)
	} else if c.prepared != nil && c.preparedText == query {
		stmt = c.prepared
	}

	switch {
	case stmt != nil && c.tx != nil:
		return stmtExecutor{stmt: c.tx.tx.StmtContext(ctx, stmt)}
	case stmt != nil:
		return stmtExecutor{stmt: stmt}
	case c.tx != nil:
		return c.tx.tx
	default:
		return c.conn.db
	}
}

func (c *SqlCommand) args() []any {
	args := make([]any, 0, c.params.Len())
	for _, p := range c.params.items {
		if p.Name == "" {
			args = append(args, p.Value)
			continue
		}
		args = append(args, sql.Named(p.BareName(), p.Value))
	}
	return args
}

func (c *SqlCommand) ExecuteReader(ctx context.Context, behavior CommandBehavior) (Rows, error) {
	query, err := c.statement(c.conn.dialect)
	if err != nil {
		return nil, err
	}

	ctx, done := c.begin(ctx)
	rows, err := c.executor(ctx, query).QueryContext(ctx, query, c.args()...)
	if err != nil {
		done()
		return nil, err
	}

	hooks := []func() error{func() error { done(); return nil }}
	if behavior.Has(CloseConnection) {
		hooks = append(hooks, c.conn.Close)
	}
	return wrapRows(&SqlRows{rows: rows}, behavior, hooks...), nil
}

func (c *SqlCommand) ExecuteScalar(ctx context.Context) (any, error) {
	rows, err := c.ExecuteReader(ctx, SingleRow)
	if err != nil {
		return nil, err
	}
	return scalar(rows)
}

func (c *SqlCommand) ExecuteNonQuery(ctx context.Context) (int64, error) {
	query, err := c.statement(c.conn.dialect)
	if err != nil {
		return 0, err
	}

	ctx, done := c.begin(ctx)
	defer done()

	res, err := c.executor(ctx, query).ExecContext(ctx, query, c.args()...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close releases the command's own prepared statement. Statements held by the
// connection cache stay cached.
func (c *SqlCommand) Close() error {
	if c.closed {
		return nil
	}
	c.Cancel()
	c.releasePrepared()
	c.closed = true
	return nil
}

// SqlRows implements Rows for *sql.Rows.
type SqlRows struct {
	rows *sql.Rows
}

// Next prepares the next result row for reading.
func (s *SqlRows) Next() bool { return s.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (s *SqlRows) Scan(dest ...any) error { return s.rows.Scan(dest...) }

// Columns returns the column names.
func (s *SqlRows) Columns() ([]string, error) { return s.rows.Columns() }

func (s *SqlRows) Err() error { return s.rows.Err() }

// Close closes the rows iterator.
func (s *SqlRows) Close() error { return s.rows.Close() }

// Assert that the sql adapters implement the capability interfaces.
var (
	_ Connection  = (*SqlConnection)(nil)
	_ Command     = (*SqlCommand)(nil)
	_ Transaction = (*SqlTransaction)(nil)
	_ Rows        = (*SqlRows)(nil)
)
