package builder

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ListMode selects how AppendList renders a collection into the command text.
type ListMode int

const (
	// ListBind binds one parameter per element, named @<token>_<n> with n
	// counting on across clauses that share the token, and substitutes the
	// comma separated parameter names for the token.
	ListBind ListMode = iota
	// ListInline substitutes the elements' default text form. Nothing is bound
	// and nothing is escaped, so it is only fit for trusted numeric or enum values.
	ListInline
	// ListLiteral substitutes elements rendered as literals by the connection's dialect.
	ListLiteral
)

// nullList stands in for an empty list so that IN (NULL) stays valid SQL.
const nullList = "NULL"

func (m ListMode) valid() bool {
	return m >= ListBind && m <= ListLiteral
}

func (m ListMode) String() string {
	switch m {
	case ListBind:
		return "bind"
	case ListInline:
		return "inline"
	case ListLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// ParseListMode maps bind, inline and literal to their ListMode.
func ParseListMode(s string) (ListMode, error) {
	switch strings.ToLower(s) {
	case "", "bind":
		return ListBind, nil
	case "inline":
		return ListInline, nil
	case "literal":
		return ListLiteral, nil
	default:
		return ListBind, fmt.Errorf("%w: %q", ErrUnknownListMode, s)
	}
}

// AppendListWhenNotNull appends text with token replaced by the rendered list,
// unless list is null.
func (b *CommandBuilder) AppendListWhenNotNull(text, token string, list any) {
	b.AppendList(text, token, list, !isNull(list))
}

// AppendList appends text with every occurrence of token replaced by the
// rendered list when include is true. list may be any slice or array; a scalar
// counts as a single element and nil as an empty list, which renders NULL.
// Empty text is a no-op; an empty token appends text unchanged.
func (b *CommandBuilder) AppendList(text, token string, list any, include bool) {
	if !include || text == "" {
		return
	}
	if token == "" {
		b.sb.WriteString(text)
		return
	}
	rendered := b.renderList(text, token, listItems(list))
	b.sb.WriteString(strings.ReplaceAll(text, token, rendered))
}

func (b *CommandBuilder) renderList(text, token string, items []any) string {
	if len(items) == 0 {
		return nullList
	}

	parts := make([]string, len(items))
	switch b.listMode {
	case ListBind:
		if !strings.Contains(text, token) {
			return ""
		}
		for i, item := range items {
			name := b.nextElementName(token)
			b.AddParameter(name, item)
			parts[i] = name
		}
	case ListLiteral:
		d := b.conn.Dialect()
		for i, item := range items {
			if d == nil {
				parts[i] = fmt.Sprint(item)
				continue
			}
			parts[i] = d.RenderValue(item)
		}
	default:
		for i, item := range items {
			parts[i] = fmt.Sprint(item)
		}
	}
	return strings.Join(parts, ", ")
}

// nextElementName returns the next unused parameter name for an element of
// token: @ids_1, @ids_2, and @ids_3 onwards when @ids was already bound by an
// earlier clause. Element names always carry the @ prefix, the one spelling
// both database/sql drivers and pgx.NamedArgs bind by name.
func (b *CommandBuilder) nextElementName(token string) string {
	bare := strings.TrimLeft(token, "@:$")
	if b.listSeq == nil {
		b.listSeq = make(map[string]int)
	}
	for {
		b.listSeq[bare]++
		name := "@" + bare + "_" + strconv.Itoa(b.listSeq[bare])
		if !b.hasParameter(name) {
			return name
		}
	}
}

func (b *CommandBuilder) hasParameter(name string) bool {
	for _, p := range b.command.Parameters().All() {
		if p.Name == name {
			return true
		}
	}
	return false
}

// asList returns the reflected collection when v is a slice or array, or a
// pointer to one, that is not itself a driver value ([]byte, [16]byte ids,
// driver.Valuer types).
func asList(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	if _, ok := v.(driver.Valuer); ok {
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.CanInterface() {
		if _, ok := rv.Interface().(driver.Valuer); ok {
			return reflect.Value{}, false
		}
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return reflect.Value{}, false
		}
		return rv, true
	default:
		return reflect.Value{}, false
	}
}

func listItems(list any) []any {
	if isNull(list) {
		return nil
	}
	rv, ok := asList(list)
	if !ok {
		return []any{list}
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}
