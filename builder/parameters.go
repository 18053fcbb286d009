package builder

import (
	"database/sql/driver"
	"reflect"
)

// AddParameter binds value under name regardless of the value.
func (b *CommandBuilder) AddParameter(name string, value any) {
	p := b.command.CreateParameter()
	p.Name = name
	p.Value = value
	b.command.Parameters().Add(p)
}

// AppendWithParameterWhenNotNull appends text and binds value under name,
// unless value is null, in which case the clause is left out entirely.
// Slices and arrays go through the list clause policy with name as the token.
func (b *CommandBuilder) AppendWithParameterWhenNotNull(text, name string, value any) {
	b.AppendWithParameter(text, name, value, !isNull(value))
}

// AppendWithParameter appends text and binds value under name when include is true.
func (b *CommandBuilder) AppendWithParameter(text, name string, value any, include bool) {
	if !include {
		return
	}
	if _, ok := asList(value); ok {
		b.AppendList(text, name, value, true)
		return
	}
	b.sb.WriteString(text)
	b.AddParameter(name, value)
}

// isNull reports whether v stands for SQL NULL: a nil interface, a nil
// pointer, slice, map, chan or func, or a driver.Valuer yielding nil
// such as an invalid sql.NullString.
func isNull(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return true
		}
	}

	if valuer, ok := v.(driver.Valuer); ok {
		val, err := valuer.Value()
		return err == nil && val == nil
	}
	return false
}
