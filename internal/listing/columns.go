package listing

import "fmt"

type Column struct {
	ID      string
	Label   string
	Visible bool
}

const (
	ColName      = "name"
	ColType      = "type"
	ColCreatedBy = "createdBy"
	ColDate      = "date"
	ColTimezone  = "timezone"
	ColIsPublic  = "isPublic"
)

// DefaultColumns in display order
func DefaultColumns() []Column {
	return []Column{
		{ID: ColName, Label: "Nombre", Visible: true},
		{ID: ColType, Label: "Tipo", Visible: true},
		{ID: ColCreatedBy, Label: "Responsable", Visible: true},
		{ID: ColDate, Label: "Fecha", Visible: true},
		{ID: ColTimezone, Label: "Zona horaria", Visible: false},
		{ID: ColIsPublic, Label: "Público", Visible: false},
	}
}

func (e *Engine) Columns() []Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Column(nil), e.columns...)
}

func (e *Engine) VisibleColumns() []Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Column
	for _, c := range e.columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// ToggleColumn flips a column's visibility. It never triggers a fetch.
func (e *Engine) ToggleColumn(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.columns {
		if e.columns[i].ID == id {
			e.columns[i].Visible = !e.columns[i].Visible
			return nil
		}
	}
	return fmt.Errorf("listing: unknown column %q", id)
}
