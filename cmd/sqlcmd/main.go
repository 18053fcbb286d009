// Command sqlcmd selects rows from one table with optional filters, printing
// them tab separated. The connection comes from SQLCMD_* environment variables.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/Konsultn-Engineering/sqlcmd/builder"
	"github.com/Konsultn-Engineering/sqlcmd/connector"
	"github.com/Konsultn-Engineering/sqlcmd/database"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "sqlcmd:", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(opts.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := connector.Load()
	if err != nil {
		return err
	}
	conn, err := connector.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	b, err := builder.New(conn,
		builder.WithLogger(logger),
		builder.WithListMode(opts.ListMode),
		builder.WithTimeout(cfg.CommandTimeout),
	)
	if err != nil {
		return err
	}
	defer b.Close()

	b.Append("SELECT * FROM " + conn.Dialect().QuoteIdentifier(opts.Table) + " WHERE 1 = 1")
	b.AppendWithParameter(" AND name = @name", "@name", opts.WhereName, opts.WhereName != "")
	b.AppendListWhenNotNull(" AND id in (@ids)", "@ids", opts.IDs)

	rows, err := b.ExecuteReader(ctx, database.Default)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := printRows(out, rows); err != nil {
		return err
	}

	stats := connector.Stats(conn)
	logger.Debug("done", zap.Int("open_connections", stats.OpenConnections), zap.Int("in_use", stats.InUse))
	return nil
}

func printRows(out io.Writer, rows database.Rows) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, strings.Join(columns, "\t"))

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	cells := make([]string, len(columns))
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		for i, v := range values {
			cells[i] = cell(v)
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}
	return rows.Err()
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
