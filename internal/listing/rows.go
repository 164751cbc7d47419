package listing

import (
	"time"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
)

// NotAvailable stands in for a reference that no longer resolves
const NotAvailable = "N/A"

const dateLayout = "02/01/2006 15:04"

// Row is one rendered table line; cells are keyed by column id
type Row struct {
	ID       string
	Selected bool
	Cells    map[string]string
}

// Rows renders the current page. Type and user labels come from the directories
// first, then the nested objects, then N/A.
func (e *Engine) Rows() []Row {
	e.mu.Lock()
	events := append([]apiclient.Event(nil), e.events...)
	selected := make(map[string]bool, len(e.selected))
	for id := range e.selected {
		selected[id] = true
	}
	e.mu.Unlock()

	rows := make([]Row, len(events))
	for i, ev := range events {
		rows[i] = Row{
			ID:       ev.ID,
			Selected: selected[ev.ID],
			Cells: map[string]string{
				ColName:      ev.Name,
				ColType:      e.typeLabel(ev),
				ColCreatedBy: e.userLabel(ev),
				ColDate:      FormatDate(ev.Date, ev.Timezone),
				ColTimezone:  ev.Timezone,
				ColIsPublic:  yesNo(ev.IsPublic),
			},
		}
	}
	return rows
}

func (e *Engine) typeLabel(ev apiclient.Event) string {
	if ev.EventTypeID != "" && e.opts.Types != nil {
		if t, ok := e.opts.Types.Lookup(ev.EventTypeID); ok {
			return t.Label
		}
	}
	if ev.EventType != nil && ev.EventType.Label != "" {
		return ev.EventType.Label
	}
	return NotAvailable
}

func (e *Engine) userLabel(ev apiclient.Event) string {
	if ev.CreatedBy != "" && e.opts.Users != nil {
		if u, ok := e.opts.Users.Lookup(ev.CreatedBy); ok {
			return u.Username
		}
	}
	if ev.User != nil && ev.User.Username != "" {
		return ev.User.Username
	}
	return NotAvailable
}

// FormatDate renders t in the event's own zone, falling back to UTC
func FormatDate(t time.Time, tz string) string {
	if t.IsZero() {
		return NotAvailable
	}
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
