package builder

import (
	"context"

	"github.com/Konsultn-Engineering/sqlcmd/database"
	"go.uber.org/zap"
)

// materialize pushes the accumulated text into the wrapped command.
func (b *CommandBuilder) materialize(op string) {
	text := b.sb.String()
	b.command.SetCommandText(text)

	if ce := b.logger.Check(zap.DebugLevel, "executing command"); ce != nil {
		ce.Write(
			zap.String("command_id", b.id.String()),
			zap.String("op", op),
			zap.String("text", text),
			zap.Int("parameters", b.command.Parameters().Len()),
			zap.Stringer("type", b.command.CommandType()),
		)
	}
}

func (b *CommandBuilder) traceError(op string, err error) {
	if err != nil {
		b.logger.Debug("command failed",
			zap.String("command_id", b.id.String()),
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// Prepare materializes the text and prepares it on the wrapped command.
func (b *CommandBuilder) Prepare(ctx context.Context) error {
	b.materialize("prepare")
	err := b.command.Prepare(ctx)
	b.traceError("prepare", err)
	return err
}

// ExecuteReader materializes the text and runs it as a query.
func (b *CommandBuilder) ExecuteReader(ctx context.Context, behavior database.CommandBehavior) (database.Rows, error) {
	b.materialize("execute_reader")
	rows, err := b.command.ExecuteReader(ctx, behavior)
	b.traceError("execute_reader", err)
	return rows, err
}

// ExecuteScalar materializes the text and returns the first column of the first row.
func (b *CommandBuilder) ExecuteScalar(ctx context.Context) (any, error) {
	b.materialize("execute_scalar")
	v, err := b.command.ExecuteScalar(ctx)
	b.traceError("execute_scalar", err)
	return v, err
}

// ExecuteNonQuery materializes the text, executes it and returns the rows affected.
func (b *CommandBuilder) ExecuteNonQuery(ctx context.Context) (int64, error) {
	b.materialize("execute_non_query")
	n, err := b.command.ExecuteNonQuery(ctx)
	b.traceError("execute_non_query", err)
	return n, err
}
