package builder

import (
	"context"
	"errors"
	"time"

	"github.com/Konsultn-Engineering/sqlcmd/database"
	"github.com/Konsultn-Engineering/sqlcmd/dialect"
)

// fakeConnection hands out fakeCommands and remembers them.
type fakeConnection struct {
	dialect   dialect.Dialect
	createErr error
	commands  []*fakeCommand
}

func (c *fakeConnection) CreateCommand() (database.Command, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	cmd := &fakeCommand{conn: c, params: database.NewParameterCollection(), rowSource: database.UpdateBoth}
	c.commands = append(c.commands, cmd)
	return cmd, nil
}

func (c *fakeConnection) Begin(ctx context.Context) (database.Transaction, error) {
	return &fakeTransaction{conn: c}, nil
}

func (c *fakeConnection) Dialect() dialect.Dialect       { return c.dialect }
func (c *fakeConnection) Ping(ctx context.Context) error { return nil }
func (c *fakeConnection) Close() error                   { return nil }

type fakeTransaction struct {
	conn database.Connection
}

func (t *fakeTransaction) Connection() database.Connection    { return t.conn }
func (t *fakeTransaction) Commit(ctx context.Context) error   { return nil }
func (t *fakeTransaction) Rollback(ctx context.Context) error { return nil }

var errExec = errors.New("exec failed")

// fakeCommand records what the builder pushes into it.
type fakeCommand struct {
	conn      *fakeConnection
	text      string
	timeout   time.Duration
	kind      database.CommandType
	rowSource database.UpdateRowSource
	tx        database.Transaction
	params    *database.ParameterCollection

	executed  []string // text seen by each execution
	prepared  int
	cancelled int
	closed    int
	fail      bool
}

func (c *fakeCommand) CommandText() string                            { return c.text }
func (c *fakeCommand) SetCommandText(text string)                     { c.text = text }
func (c *fakeCommand) CommandTimeout() time.Duration                  { return c.timeout }
func (c *fakeCommand) SetCommandTimeout(d time.Duration)              { c.timeout = d }
func (c *fakeCommand) CommandType() database.CommandType              { return c.kind }
func (c *fakeCommand) SetCommandType(t database.CommandType)          { c.kind = t }
func (c *fakeCommand) UpdatedRowSource() database.UpdateRowSource     { return c.rowSource }
func (c *fakeCommand) SetUpdatedRowSource(s database.UpdateRowSource) { c.rowSource = s }
func (c *fakeCommand) Connection() database.Connection                { return c.conn }
func (c *fakeCommand) Transaction() database.Transaction              { return c.tx }
func (c *fakeCommand) Parameters() *database.ParameterCollection      { return c.params }
func (c *fakeCommand) CreateParameter() *database.Parameter           { return &database.Parameter{} }
func (c *fakeCommand) Cancel()                                        { c.cancelled++ }

func (c *fakeCommand) SetTransaction(tx database.Transaction) error {
	if tx != nil && tx.Connection() != database.Connection(c.conn) {
		return database.ErrTransactionMismatch
	}
	c.tx = tx
	return nil
}

func (c *fakeCommand) Prepare(ctx context.Context) error {
	c.prepared++
	return nil
}

func (c *fakeCommand) record() error {
	c.executed = append(c.executed, c.text)
	if c.fail {
		return errExec
	}
	return nil
}

func (c *fakeCommand) ExecuteReader(ctx context.Context, behavior database.CommandBehavior) (database.Rows, error) {
	return nil, c.record()
}

func (c *fakeCommand) ExecuteScalar(ctx context.Context) (any, error) {
	if err := c.record(); err != nil {
		return nil, err
	}
	return int64(1), nil
}

func (c *fakeCommand) ExecuteNonQuery(ctx context.Context) (int64, error) {
	if err := c.record(); err != nil {
		return 0, err
	}
	return 2, nil
}

func (c *fakeCommand) Close() error {
	c.closed++
	return nil
}

var _ database.Command = (*fakeCommand)(nil)
