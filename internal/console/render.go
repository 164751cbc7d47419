package console

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sharath018/event-scheduler-backend/internal/forms"
	"github.com/sharath018/event-scheduler-backend/internal/listing"
	"github.com/sharath018/event-scheduler-backend/internal/pagination"
	"github.com/sharath018/event-scheduler-backend/internal/selector"
)

func noticeOK(msg string) listing.Notice {
	return listing.Notice{Kind: listing.NoticeSuccess, Message: msg}
}

// Render prints the table, the pagination strip, the selection counter and the undo affordance
func (c *Console) Render() {
	snap := c.engine.Snapshot()
	cols := c.engine.VisibleColumns()

	if snap.Search != "" {
		fmt.Fprintf(c.out, "🔎 Buscar: %q\n", snap.Search)
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	header := []string{"#", checkbox(c.engine.HeaderState())}
	for _, col := range cols {
		header = append(header, col.Label)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	switch {
	case snap.Loading:
		fmt.Fprintln(tw, "…\tCargando eventos")
	case len(snap.Events) == 0:
		fmt.Fprintln(tw, "-\tNo hay eventos disponibles.")
	default:
		for i, row := range c.engine.Rows() {
			mark := listing.Unchecked
			if row.Selected {
				mark = listing.Checked
			}
			line := []string{fmt.Sprint(i + 1), checkbox(mark)}
			for _, col := range cols {
				line = append(line, row.Cells[col.ID])
			}
			fmt.Fprintln(tw, strings.Join(line, "\t"))
		}
	}
	_ = tw.Flush()

	if snap.Selected > 0 {
		fmt.Fprintf(c.out, "%d fila(s) seleccionadas.\n", snap.Selected)
	}

	strip := pagination.Build(snap.Page, snap.TotalPages, snap.PerPage)
	fmt.Fprintf(c.out, "%s %s %s %s   %s   Mostrar %d entradas\n",
		nav("«", strip.First), nav("‹", strip.Prev), nav("›", strip.Next), nav("»", strip.Last),
		strip.Label(), strip.PerPage)

	if snap.UndoAvailable {
		fmt.Fprintln(c.out, "🗑️ Evento eliminado correctamente. Escribe 'deshacer' para recuperarlo.")
	}
}

func (c *Console) renderPicker() {
	p := c.picker
	if p == nil {
		return
	}
	items := p.visible()
	fmt.Fprintf(c.out, "── %s (%s) ──\n", p.title(), p.state())
	if len(items) == 0 {
		fmt.Fprintln(c.out, "  No hay coincidencias.")
	}
	for i, it := range items {
		mark := " "
		if it.ID == p.value() {
			mark = "✓"
		}
		fmt.Fprintf(c.out, "  %d. %s %s\n", i+1, mark, it.Label)
	}
	if p.state() == selector.Open {
		fmt.Fprintf(c.out, "  + crear %s\n", p.title())
	}
}

func (c *Console) printTimezones(query string) {
	for _, g := range forms.FilterTimezones(query) {
		fmt.Fprintf(c.out, "%s\n", g.Label)
		for _, tz := range g.Timezones {
			fmt.Fprintf(c.out, "  %-32s %s\n", tz.Value, tz.Label)
		}
	}
}

func checkbox(s listing.CheckState) string {
	switch s {
	case listing.Checked:
		return "[x]"
	case listing.Indeterminate:
		return "[-]"
	}
	return "[ ]"
}

func nav(symbol string, ctl pagination.Control) string {
	if ctl.Disabled {
		return "·"
	}
	return symbol
}
