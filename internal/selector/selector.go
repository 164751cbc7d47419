package selector

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type State int

const (
	Closed State = iota
	Open
	CreatingOpen
	EditingOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case CreatingOpen:
		return "creating"
	case EditingOpen:
		return "editing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var ErrInvalidTransition = errors.New("selector: action not allowed in current state")

// Item is one selectable entry
type Item struct {
	ID    string
	Label string
}

// Source is the directory a control reads from and writes through.
// D is the draft the create/edit modals work on.
type Source[D any] interface {
	Items() []Item
	Create(ctx context.Context, draft D) (Item, error)
	Update(ctx context.Context, id string, draft D) (Item, error)
	Delete(ctx context.Context, id string) error
	Draft(id string) (D, bool)
}

// Control is the searchable single-select with inline create, edit and delete
type Control[D any] struct {
	src     Source[D]
	bind    Binding
	state   State
	filter  string
	editing string
}

func New[D any](src Source[D], bind Binding) *Control[D] {
	return &Control[D]{src: src, bind: bind}
}

func (c *Control[D]) State() State      { return c.state }
func (c *Control[D]) Value() string     { return c.bind.Value() }
func (c *Control[D]) Filter() string    { return c.filter }
func (c *Control[D]) EditingID() string { return c.editing }

// SelectedLabel is the label of the current value, or "" when nothing resolves
func (c *Control[D]) SelectedLabel() string {
	v := c.bind.Value()
	if v == "" {
		return ""
	}
	for _, it := range c.src.Items() {
		if it.ID == v {
			return it.Label
		}
	}
	return ""
}

func (c *Control[D]) OpenPopover() {
	if c.state == Closed {
		c.state = Open
		c.filter = ""
	}
}

// Dismiss handles escape and outside clicks: a modal falls back to the popover,
// the popover closes.
func (c *Control[D]) Dismiss() {
	switch c.state {
	case CreatingOpen, EditingOpen:
		c.state = Open
		c.editing = ""
	case Open:
		c.close()
	}
}

func (c *Control[D]) SetFilter(q string) {
	if c.state == Open {
		c.filter = q
	}
}

// Visible lists the entries whose label contains the filter, ignoring case
func (c *Control[D]) Visible() []Item {
	items := c.src.Items()
	q := strings.ToLower(strings.TrimSpace(c.filter))
	if q == "" {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Label), q) {
			out = append(out, it)
		}
	}
	return out
}

// Select picks id and closes. Picking the current value closes without a change.
func (c *Control[D]) Select(id string) error {
	if c.state != Open {
		return ErrInvalidTransition
	}
	if id != c.bind.Value() {
		c.bind.Set(id)
	}
	c.close()
	return nil
}

func (c *Control[D]) BeginCreate() error {
	if c.state != Open {
		return ErrInvalidTransition
	}
	c.state = CreatingOpen
	return nil
}

// SubmitCreate creates the entry, selects it and closes both the modal and the popover.
// On failure the modal stays open.
func (c *Control[D]) SubmitCreate(ctx context.Context, draft D) (Item, error) {
	if c.state != CreatingOpen {
		return Item{}, ErrInvalidTransition
	}
	item, err := c.src.Create(ctx, draft)
	if err != nil {
		return Item{}, err
	}
	c.bind.Set(item.ID)
	c.close()
	return item, nil
}

// BeginEdit opens the edit modal seeded with the entry's current values
func (c *Control[D]) BeginEdit(id string) (D, error) {
	var zero D
	if c.state != Open {
		return zero, ErrInvalidTransition
	}
	draft, ok := c.src.Draft(id)
	if !ok {
		return zero, fmt.Errorf("selector: unknown entry %q", id)
	}
	c.state = EditingOpen
	c.editing = id
	return draft, nil
}

// SubmitEdit saves the edit and returns to the popover
func (c *Control[D]) SubmitEdit(ctx context.Context, draft D) (Item, error) {
	if c.state != EditingOpen {
		return Item{}, ErrInvalidTransition
	}
	item, err := c.src.Update(ctx, c.editing, draft)
	if err != nil {
		return Item{}, err
	}
	c.state = Open
	c.editing = ""
	return item, nil
}

// DeleteItem removes id through the source. The popover stays open and a deleted
// selection is cleared.
func (c *Control[D]) DeleteItem(ctx context.Context, id string) error {
	if c.state != Open {
		return ErrInvalidTransition
	}
	if err := c.src.Delete(ctx, id); err != nil {
		return err
	}
	if c.bind.Value() == id {
		c.bind.Set("")
	}
	return nil
}

func (c *Control[D]) close() {
	c.state = Closed
	c.filter = ""
	c.editing = ""
}
