// Package builder composes SQL text and bound parameters in front of a
// database.Command and executes the result through it.
//
// A CommandBuilder owns the command it wraps: Close releases it. It is not
// safe for concurrent use.
package builder

import (
	"fmt"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/sqlcmd/database"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// CommandBuilder accumulates text fragments and parameters for one command.
type CommandBuilder struct {
	sb       strings.Builder
	command  database.Command
	conn     database.Connection
	id       ulid.ULID
	logger   *zap.Logger
	listMode ListMode
	listSeq  map[string]int // last element number used per list token
	closed   bool
}

// Option configures a CommandBuilder during New.
type Option func(*CommandBuilder) error

// WithLogger sets the logger used for execution traces.
func WithLogger(l *zap.Logger) Option {
	return func(b *CommandBuilder) error {
		if l != nil {
			b.logger = l
		}
		return nil
	}
}

// WithListMode selects how list clauses are rendered. The default is ListBind.
func WithListMode(m ListMode) Option {
	return func(b *CommandBuilder) error {
		if !m.valid() {
			return fmt.Errorf("%w: %d", ErrUnknownListMode, m)
		}
		b.listMode = m
		return nil
	}
}

// WithTransaction binds the wrapped command to tx.
func WithTransaction(tx database.Transaction) Option {
	return func(b *CommandBuilder) error {
		return b.command.SetTransaction(tx)
	}
}

func WithTimeout(d time.Duration) Option {
	return func(b *CommandBuilder) error {
		b.command.SetCommandTimeout(d)
		return nil
	}
}

func WithCommandType(t database.CommandType) Option {
	return func(b *CommandBuilder) error {
		b.command.SetCommandType(t)
		return nil
	}
}

// New creates the wrapped command from conn right away. If any option fails
// the command is closed before New returns.
func New(conn database.Connection, opts ...Option) (b *CommandBuilder, err error) {
	cmd, err := conn.CreateCommand()
	if err != nil {
		return nil, fmt.Errorf("create command: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			cmd.Close()
			panic(r)
		}
		if err != nil {
			cmd.Close()
		}
	}()

	b = &CommandBuilder{
		command:  cmd,
		conn:     conn,
		id:       ulid.Make(),
		logger:   zap.NewNop(),
		listMode: ListBind,
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ID identifies the builder in log output.
func (b *CommandBuilder) ID() string {
	return b.id.String()
}

// Command returns the wrapped command.
func (b *CommandBuilder) Command() database.Command {
	return b.command
}

func (b *CommandBuilder) ListMode() ListMode {
	return b.listMode
}

func (b *CommandBuilder) Connection() database.Connection {
	return b.command.Connection()
}

func (b *CommandBuilder) Transaction() database.Transaction {
	return b.command.Transaction()
}

func (b *CommandBuilder) SetTransaction(tx database.Transaction) error {
	return b.command.SetTransaction(tx)
}

func (b *CommandBuilder) CommandTimeout() time.Duration {
	return b.command.CommandTimeout()
}

func (b *CommandBuilder) SetCommandTimeout(d time.Duration) {
	b.command.SetCommandTimeout(d)
}

func (b *CommandBuilder) CommandType() database.CommandType {
	return b.command.CommandType()
}

func (b *CommandBuilder) SetCommandType(t database.CommandType) {
	b.command.SetCommandType(t)
}

func (b *CommandBuilder) UpdatedRowSource() database.UpdateRowSource {
	return b.command.UpdatedRowSource()
}

func (b *CommandBuilder) SetUpdatedRowSource(s database.UpdateRowSource) {
	b.command.SetUpdatedRowSource(s)
}

// Parameters returns the wrapped command's parameter list. The list is shared,
// not copied: parameters added or cleared through it are what the next
// execution binds.
func (b *CommandBuilder) Parameters() *database.ParameterCollection {
	return b.command.Parameters()
}

func (b *CommandBuilder) CreateParameter() *database.Parameter {
	return b.command.CreateParameter()
}

// Cancel aborts the execution in flight on the wrapped command.
func (b *CommandBuilder) Cancel() {
	b.command.Cancel()
}

// Close releases the wrapped command. Further calls are no-ops.
func (b *CommandBuilder) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.command.Close()
}

var _ database.Command = (*CommandBuilder)(nil)
