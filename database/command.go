package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Konsultn-Engineering/sqlcmd/dialect"
)

// commandState holds what every adapter's command carries regardless of driver.
type commandState struct {
	text      string
	timeout   time.Duration
	kind      CommandType
	rowSource UpdateRowSource
	params    *ParameterCollection
	closed    bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newCommandState() *commandState {
	return &commandState{
		rowSource: UpdateBoth,
		params:    NewParameterCollection(),
	}
}

func (s *commandState) CommandText() string                   { return s.text }
func (s *commandState) SetCommandText(text string)            { s.text = text }
func (s *commandState) CommandTimeout() time.Duration         { return s.timeout }
func (s *commandState) SetCommandTimeout(d time.Duration)     { s.timeout = d }
func (s *commandState) CommandType() CommandType              { return s.kind }
func (s *commandState) SetCommandType(t CommandType)          { s.kind = t }
func (s *commandState) UpdatedRowSource() UpdateRowSource     { return s.rowSource }
func (s *commandState) SetUpdatedRowSource(r UpdateRowSource) { s.rowSource = r }
func (s *commandState) Parameters() *ParameterCollection      { return s.params }

func (s *commandState) CreateParameter() *Parameter {
	return &Parameter{}
}

// Cancel aborts the execution currently in flight, if any.
func (s *commandState) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// begin derives the execution context, applying the command timeout and
// registering it for Cancel. done must be called once the execution is over.
func (s *commandState) begin(ctx context.Context) (context.Context, func()) {
	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
		cancel()
	}
}

// statement renders the SQL sent to the driver for the current command type.
func (s *commandState) statement(d dialect.Dialect) (string, error) {
	if s.closed {
		return "", ErrCommandClosed
	}
	if s.text == "" {
		return "", ErrEmptyCommandText
	}

	switch s.kind {
	case Text:
		return s.text, nil
	case StoredProcedure:
		names := make([]string, 0, s.params.Len())
		for _, p := range s.params.items {
			names = append(names, p.Placeholder())
		}
		return "CALL " + s.text + "(" + strings.Join(names, ", ") + ")", nil
	case TableDirect:
		return "SELECT * FROM " + d.QuoteIdentifier(s.text), nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownCommandType, s.kind)
	}
}

// scalar reads the first column of the first row and closes rows.
func scalar(rows Rows) (any, error) {
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, rows.Err()
	}
	return vals[0], rows.Err()
}
