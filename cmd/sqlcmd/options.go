package main

import (
	"errors"

	"github.com/Konsultn-Engineering/sqlcmd/builder"
	"github.com/spf13/pflag"
)

type options struct {
	Table     string
	WhereName string
	IDs       []int64
	ListMode  builder.ListMode
	Debug     bool
}

var errNoTable = errors.New("--table is required")

func parseFlags(args []string) (*options, error) {
	flags := pflag.NewFlagSet("sqlcmd", pflag.ContinueOnError)
	flags.String("table", "", "Table to select from")
	flags.String("where-name", "", "Only rows whose name column equals this value")
	flags.Int64Slice("ids", nil, "Only rows whose id is in this comma separated list")
	flags.String("list-mode", "bind", "How --ids is rendered: bind, inline or literal")
	flags.Bool("debug", false, "Enable development logging")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	opts := &options{}
	opts.Table, _ = flags.GetString("table")
	opts.WhereName, _ = flags.GetString("where-name")
	opts.Debug, _ = flags.GetBool("debug")
	if flags.Changed("ids") {
		opts.IDs, _ = flags.GetInt64Slice("ids")
		if opts.IDs == nil {
			opts.IDs = []int64{}
		}
	}

	mode, _ := flags.GetString("list-mode")
	m, err := builder.ParseListMode(mode)
	if err != nil {
		return nil, err
	}
	opts.ListMode = m

	if opts.Table == "" {
		return nil, errNoTable
	}
	return opts, nil
}
