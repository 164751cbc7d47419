package listing

// CheckState is the header checkbox rendering
type CheckState int

const (
	Unchecked CheckState = iota
	Indeterminate
	Checked
)

func (e *Engine) ToggleRow(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.onPageLocked(id) {
		return
	}
	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
		return
	}
	e.selected[id] = struct{}{}
}

// SelectAll selects or clears every row on the current page
func (e *Engine) SelectAll(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = make(map[string]struct{})
	if !on {
		return
	}
	for _, ev := range e.events {
		e.selected[ev.ID] = struct{}{}
	}
}

func (e *Engine) HeaderState() CheckState {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.selected)
	switch {
	case n == 0:
		return Unchecked
	case n == len(e.events):
		return Checked
	default:
		return Indeterminate
	}
}

func (e *Engine) SelectedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.selected)
}

func (e *Engine) IsSelected(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.selected[id]
	return ok
}

func (e *Engine) onPageLocked(id string) bool {
	for _, ev := range e.events {
		if ev.ID == id {
			return true
		}
	}
	return false
}
