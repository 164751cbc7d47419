package console

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/sharath018/event-scheduler-backend/internal/directory"
	"github.com/sharath018/event-scheduler-backend/internal/selector"
)

// picker erases the draft type so the console can hold either selector
type picker interface {
	title() string
	state() selector.State
	visible() []selector.Item
	value() string
	setFilter(q string)
	pick(id string) error
	create(ctx context.Context, args string) (selector.Item, error)
	edit(ctx context.Context, id, args string) (selector.Item, error)
	remove(ctx context.Context, id string) error
	dismiss()
}

type pickerOf[D any] struct {
	name  string
	ctl   *selector.Control[D]
	parse func(seed D, args string) (D, error)
}

func (p *pickerOf[D]) title() string            { return p.name }
func (p *pickerOf[D]) state() selector.State    { return p.ctl.State() }
func (p *pickerOf[D]) visible() []selector.Item { return p.ctl.Visible() }
func (p *pickerOf[D]) value() string            { return p.ctl.Value() }
func (p *pickerOf[D]) setFilter(q string)       { p.ctl.SetFilter(q) }
func (p *pickerOf[D]) pick(id string) error     { return p.ctl.Select(id) }
func (p *pickerOf[D]) dismiss()                 { p.ctl.Dismiss() }

func (p *pickerOf[D]) create(ctx context.Context, args string) (selector.Item, error) {
	if err := p.ctl.BeginCreate(); err != nil {
		return selector.Item{}, err
	}
	var zero D
	draft, err := p.parse(zero, args)
	if err != nil {
		p.ctl.Dismiss()
		return selector.Item{}, err
	}
	item, err := p.ctl.SubmitCreate(ctx, draft)
	if err != nil {
		p.ctl.Dismiss()
		return selector.Item{}, err
	}
	return item, nil
}

func (p *pickerOf[D]) edit(ctx context.Context, id, args string) (selector.Item, error) {
	seed, err := p.ctl.BeginEdit(id)
	if err != nil {
		return selector.Item{}, err
	}
	draft, err := p.parse(seed, args)
	if err != nil {
		p.ctl.Dismiss()
		return selector.Item{}, err
	}
	item, err := p.ctl.SubmitEdit(ctx, draft)
	if err != nil {
		p.ctl.Dismiss()
		return selector.Item{}, err
	}
	return item, nil
}

func (p *pickerOf[D]) remove(ctx context.Context, id string) error {
	return p.ctl.DeleteItem(ctx, id)
}

// ===========================
// 🏷️ Builders

func (c *Console) bindingFor(ctx context.Context, eventID string, get func() string, change func(ctx context.Context, id string) error) selector.Binding {
	if eventID == "" {
		return selector.Uncontrolled("")
	}
	return selector.Controlled(get, func(id string) {
		if id == "" {
			return
		}
		if err := change(ctx, id); err != nil {
			log.Printf("⚠️ reassign event %s to %s: %v", eventID, id, err)
		}
	})
}

func (c *Console) openTypePicker(ctx context.Context, eventID string) {
	bind := c.bindingFor(ctx, eventID,
		func() string { ev, _ := c.eventByID(eventID); return ev.EventTypeID },
		func(ctx context.Context, id string) error { return c.engine.ReassignType(ctx, eventID, id) })

	p := &pickerOf[directory.EventTypeDraft]{
		name: "tipo",
		ctl:  selector.New(c.types.Source(), bind),
		parse: func(seed directory.EventTypeDraft, args string) (directory.EventTypeDraft, error) {
			if args = strings.TrimSpace(args); args != "" {
				seed.Label = args
			}
			return seed, nil
		},
	}
	p.ctl.OpenPopover()
	c.picker = p
	c.renderPicker()
}

func (c *Console) openUserPicker(ctx context.Context, eventID string) {
	bind := c.bindingFor(ctx, eventID,
		func() string { ev, _ := c.eventByID(eventID); return ev.CreatedBy },
		func(ctx context.Context, id string) error { return c.engine.ReassignUser(ctx, eventID, id) })

	p := &pickerOf[directory.UserForm]{
		name:  "responsable",
		ctl:   selector.New(c.users.Source(), bind),
		parse: c.parseUserForm,
	}
	p.ctl.OpenPopover()
	c.picker = p
	c.renderPicker()
}

// parseUserForm reads usuario= email= contacto= clave= pairs over the seed.
// A new user without clave gets a generated password.
func (c *Console) parseUserForm(seed directory.UserForm, args string) (directory.UserForm, error) {
	creating := seed.Username == "" && seed.Email == ""
	for _, field := range strings.Fields(args) {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return seed, fmt.Errorf("campo inválido %q (usa clave=valor)", field)
		}
		switch strings.ToLower(key) {
		case "usuario":
			seed.Username = val
		case "email":
			seed.Email = val
		case "contacto":
			seed.Contact = directory.SanitizeContact(val)
		case "clave":
			seed.Password, seed.Confirm = val, val
		default:
			return seed, fmt.Errorf("campo desconocido %q", key)
		}
	}
	if creating && seed.Password == "" {
		if err := seed.FillGeneratedPassword(); err != nil {
			return seed, err
		}
		fmt.Fprintf(c.out, "🔑 Contraseña generada: %s\n", seed.Password)
	}
	return seed, nil
}

func (c *Console) execPicker(ctx context.Context, cmd, rest string) error {
	p := c.picker
	defer func() {
		if p.state() == selector.Closed {
			c.picker = nil
			c.Render()
		} else {
			c.renderPicker()
		}
	}()

	switch cmd {
	case "f", "filtro":
		p.setFilter(rest)
		return nil
	case "elegir":
		id, err := c.itemID(p, rest)
		if err != nil {
			return err
		}
		return p.pick(id)
	case "crear":
		item, err := p.create(ctx, rest)
		if err != nil {
			return err
		}
		c.notice(noticeOK(fmt.Sprintf("%q creado", item.Label)))
		return nil
	case "editar":
		ref, args, _ := strings.Cut(rest, " ")
		id, err := c.itemID(p, ref)
		if err != nil {
			return err
		}
		item, err := p.edit(ctx, id, args)
		if err != nil {
			return err
		}
		c.notice(noticeOK(fmt.Sprintf("%q actualizado", item.Label)))
		return nil
	case "eliminar":
		id, err := c.itemID(p, rest)
		if err != nil {
			return err
		}
		if err := p.remove(ctx, id); err != nil {
			return err
		}
		c.notice(noticeOK("Eliminado"))
		return nil
	case "esc":
		p.dismiss()
		return nil
	}
	return fmt.Errorf("comando desconocido %q (f, elegir, crear, editar, eliminar, esc)", cmd)
}

// itemID accepts a 1-based number from the visible list or an id
func (c *Console) itemID(p picker, ref string) (string, error) {
	items := p.visible()
	if n, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		if n < 1 || n > len(items) {
			return "", fmt.Errorf("opción %d fuera de rango", n)
		}
		return items[n-1].ID, nil
	}
	for _, it := range items {
		if it.ID == ref {
			return it.ID, nil
		}
	}
	return "", fmt.Errorf("opción %q no encontrada", ref)
}
