package resultview

// Expansion tracks which clause rows are expanded. Rows start collapsed and
// toggle independently. The zero value is ready to use.
type Expansion struct {
	open map[int]bool
}

// Toggle flips row i and returns its new state.
func (e *Expansion) Toggle(i int) bool {
	if e.open == nil {
		e.open = make(map[int]bool)
	}
	e.open[i] = !e.open[i]
	if !e.open[i] {
		delete(e.open, i)
	}
	return e.open[i]
}

// IsExpanded reports whether row i is expanded.
func (e *Expansion) IsExpanded(i int) bool {
	return e.open[i]
}

// Reset collapses every row.
func (e *Expansion) Reset() {
	e.open = nil
}
