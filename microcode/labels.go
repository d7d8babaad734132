package microcode

// LabelBinder collects the symbolic names bound to microcode addresses.
// Binding is append-only: names are never removed, and binding the same
// name twice simply lists it twice.
type LabelBinder struct {
	names map[int][]string
}

// NewLabelBinder returns an empty binder.
func NewLabelBinder() *LabelBinder {
	return &LabelBinder{names: make(map[int][]string)}
}

// Bind appends name to the label list of addr.
func (lb *LabelBinder) Bind(addr int, name string) {
	lb.names[addr] = append(lb.names[addr], name)
}

// At returns the names bound to addr in binding order, or nil.
func (lb *LabelBinder) At(addr int) []string {
	return lb.names[addr]
}
