package normalize

// Warning records a field value that could not be normalized.
//
// Normalizers never log and never fail: a value that cannot be coerced
// becomes the canonical empty value plus a Warning appended to the
// caller-owned collector. A nil *Warnings discards them.
type Warning struct {
	Field  string `json:"field,omitempty"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Warnings collects normalization warnings for one processing pass.
// Field returns views that attribute warnings to a source column; all
// views append into the same backing collector.
type Warnings struct {
	field string
	root  *Warnings
	list  []Warning
}

// Field returns a view of the collector that stamps subsequent warnings
// with the named source column. Safe to call on a nil receiver.
func (w *Warnings) Field(name string) *Warnings {
	if w == nil {
		return nil
	}
	return &Warnings{field: name, root: w.rootRef()}
}

// Add appends a warning. Safe to call on a nil receiver.
func (w *Warnings) Add(value, reason string) {
	if w == nil {
		return
	}
	r := w.rootRef()
	r.list = append(r.list, Warning{Field: w.field, Value: value, Reason: reason})
}

// Len returns the number of collected warnings.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	return len(w.rootRef().list)
}

// All returns the collected warnings in order.
func (w *Warnings) All() []Warning {
	if w == nil {
		return nil
	}
	return w.rootRef().list
}

func (w *Warnings) rootRef() *Warnings {
	if w.root != nil {
		return w.root
	}
	return w
}
