package database

import "strings"

// Parameter is a named value bound to a command. Name keeps its prefix
// (@id, :id, $id); an empty name binds the value positionally.
type Parameter struct {
	Name  string
	Value any
}

// BareName returns the name without its @, : or $ prefix.
func (p *Parameter) BareName() string {
	return strings.TrimLeft(p.Name, "@:$")
}

// Placeholder returns the token that refers to p inside statement text.
func (p *Parameter) Placeholder() string {
	if p.Name == "" || p.Name != p.BareName() {
		return p.Name
	}
	return "@" + p.Name
}

// ParameterCollection is the ordered parameter list of a command.
// Names are not required to be unique.
type ParameterCollection struct {
	items []*Parameter
}

func NewParameterCollection() *ParameterCollection {
	return &ParameterCollection{items: make([]*Parameter, 0, 4)}
}

func (c *ParameterCollection) Add(p *Parameter) {
	c.items = append(c.items, p)
}

func (c *ParameterCollection) Len() int {
	return len(c.items)
}

// At returns the i-th parameter in insertion order.
func (c *ParameterCollection) At(i int) *Parameter {
	return c.items[i]
}

// All returns a copy of the parameter list.
func (c *ParameterCollection) All() []*Parameter {
	out := make([]*Parameter, len(c.items))
	copy(out, c.items)
	return out
}

func (c *ParameterCollection) Clear() {
	c.items = c.items[:0]
}

// named reports how many parameters carry a name.
func (c *ParameterCollection) named() int {
	n := 0
	for _, p := range c.items {
		if p.Name != "" {
			n++
		}
	}
	return n
}
