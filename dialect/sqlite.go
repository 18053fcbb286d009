package dialect

import (
	"fmt"
	"strings"
)

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (SQLite) Name() string {
	return "sqlite"
}

func (SQLite) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Placeholder uses the numbered ?NNN form so repeated arguments can be addressed.
func (SQLite) Placeholder(n int) string {
	return fmt.Sprintf("?%d", n)
}

func (SQLite) RenderValue(v any) string {
	if s, ok := renderCommon(v); ok {
		return s
	}
	switch val := v.(type) {
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []byte:
		return fmt.Sprintf("X'%x'", val)
	}
	return "NULL"
}
