package database

// behaviorRows applies CommandBehavior flags on top of a driver's rows and
// runs release hooks once the rows are closed.
type behaviorRows struct {
	Rows
	singleRow bool
	seen      bool
	closed    bool
	onClose   []func() error
}

func wrapRows(rows Rows, behavior CommandBehavior, onClose ...func() error) Rows {
	return &behaviorRows{
		Rows:      rows,
		singleRow: behavior.Has(SingleRow),
		onClose:   onClose,
	}
}

func (r *behaviorRows) Next() bool {
	if r.singleRow && r.seen {
		return false
	}
	if !r.Rows.Next() {
		return false
	}
	r.seen = true
	return true
}

func (r *behaviorRows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.Rows.Close()
	for _, fn := range r.onClose {
		if cerr := fn(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
