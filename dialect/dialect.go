package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Dialect describes how a database spells identifiers, placeholders and literals.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	Placeholder(n int) string
	RenderValue(v any) string
}

// quoteString wraps s in single quotes, doubling embedded quotes.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// renderCommon renders the literal forms every supported dialect agrees on.
// ok is false for bool and []byte, which each dialect spells differently.
func renderCommon(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "NULL", true
	case string:
		return quoteString(val), true
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), true
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), true
	case time.Time:
		return quoteString(val.Format("2006-01-02 15:04:05.000000")), true
	case fmt.Stringer:
		return quoteString(val.String()), true
	case bool, []byte:
		return "", false
	default:
		return quoteString(fmt.Sprint(val)), true
	}
}

// ByName returns the dialect registered under name, or nil.
func ByName(name string) Dialect {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return NewPostgresDialect()
	case "sqlite", "sqlite3":
		return NewSQLiteDialect()
	case "mysql":
		return NewMySQLDialect()
	default:
		return nil
	}
}
