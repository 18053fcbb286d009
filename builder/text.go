package builder

// Append adds text to the end of the command.
func (b *CommandBuilder) Append(text string) {
	b.sb.WriteString(text)
}

// AppendIf adds text only when cond is true.
func (b *CommandBuilder) AppendIf(text string, cond bool) {
	if cond {
		b.sb.WriteString(text)
	}
}

// CommandText returns the fragments appended so far, in order.
func (b *CommandBuilder) CommandText() string {
	return b.sb.String()
}

// SetCommandText discards every fragment and starts over with text.
func (b *CommandBuilder) SetCommandText(text string) {
	b.sb.Reset()
	b.sb.WriteString(text)
}
