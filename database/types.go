package database

// CommandType tells a command how to interpret its text.
type CommandType int

const (
	// Text executes the command text as a SQL statement.
	Text CommandType = iota
	// StoredProcedure treats the text as a procedure name called with the parameters.
	StoredProcedure
	// TableDirect treats the text as a table name and selects every row.
	TableDirect
)

func (t CommandType) String() string {
	switch t {
	case Text:
		return "text"
	case StoredProcedure:
		return "stored_procedure"
	case TableDirect:
		return "table_direct"
	default:
		return "unknown"
	}
}

// CommandBehavior flags adjust how ExecuteReader returns rows.
type CommandBehavior uint

const (
	Default      CommandBehavior = 0
	SingleResult CommandBehavior = 1 << (iota - 1)
	SchemaOnly
	KeyInfo
	SingleRow
	SequentialAccess
	CloseConnection
)

func (b CommandBehavior) Has(flag CommandBehavior) bool {
	return b&flag != 0
}

// UpdateRowSource is carried for callers that apply command results back to a row source.
type UpdateRowSource int

const (
	UpdateNone UpdateRowSource = iota
	UpdateOutputParameters
	UpdateFirstReturnedRecord
	UpdateBoth
)
