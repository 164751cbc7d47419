package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
	"github.com/sharath018/event-scheduler-backend/internal/directory"
	"github.com/sharath018/event-scheduler-backend/internal/forms"
	"github.com/sharath018/event-scheduler-backend/internal/listing"
	"github.com/sharath018/event-scheduler-backend/internal/pagination"
)

// API is everything the console calls on the server
type API interface {
	listing.EventAPI
	directory.EventTypeAPI
	directory.UserAPI
}

// Console is a line-oriented front end over the listing engine and both directories
type Console struct {
	out    io.Writer
	types  *directory.EventTypes
	users  *directory.Users
	engine *listing.Engine
	api    API
	picker picker
	now    func() time.Time
}

type Options struct {
	PerPage    int
	UndoWindow time.Duration
	AfterFunc  func(d time.Duration, f func()) listing.Timer
	Now        func() time.Time
}

func New(api API, out io.Writer, opts Options) *Console {
	c := &Console{
		out:   out,
		api:   api,
		types: directory.NewEventTypes(api),
		users: directory.NewUsers(api),
		now:   opts.Now,
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.engine = listing.NewEngine(api, listing.Options{
		Types:      c.types,
		Users:      c.users,
		Notify:     c.notice,
		PerPage:    opts.PerPage,
		UndoWindow: opts.UndoWindow,
		AfterFunc:  opts.AfterFunc,
	})
	return c
}

func (c *Console) Engine() *listing.Engine { return c.engine }

// Start loads both directories and the first page
func (c *Console) Start(ctx context.Context) error {
	if err := c.types.Refresh(ctx); err != nil {
		return fmt.Errorf("load event types: %w", err)
	}
	if err := c.users.Refresh(ctx); err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	if err := c.engine.Load(ctx); err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	c.Render()
	return nil
}

// Run reads commands until EOF or "salir"
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	defer c.engine.Close()

	sc := bufio.NewScanner(in)
	c.prompt()
	for sc.Scan() {
		if c.Exec(ctx, sc.Text()) {
			return nil
		}
		c.prompt()
	}
	return sc.Err()
}

func (c *Console) prompt() {
	if c.picker != nil {
		fmt.Fprintf(c.out, "%s> ", c.picker.title())
		return
	}
	fmt.Fprint(c.out, "> ")
}

// Exec runs one command line and reports whether the console should exit
func (c *Console) Exec(ctx context.Context, line string) bool {
	cmd, rest := splitCommand(line)
	if cmd == "" {
		return false
	}
	if cmd == "salir" || cmd == "quit" || cmd == "exit" {
		return true
	}

	var err error
	if c.picker != nil {
		err = c.execPicker(ctx, cmd, rest)
	} else {
		err = c.execTable(ctx, cmd, rest)
	}
	if err != nil {
		c.printErr(err)
	}
	return false
}

func (c *Console) execTable(ctx context.Context, cmd, rest string) error {
	snap := c.engine.Snapshot()
	strip := pagination.Build(snap.Page, snap.TotalPages, snap.PerPage)
	nav := pagination.Callbacks{
		OnPageChange:    func(p int) { c.report(c.engine.SetPage(ctx, p)) },
		OnPerPageChange: func(n int) { c.report(c.engine.SetPerPage(ctx, n)) },
	}

	switch cmd {
	case "ayuda", "help", "?":
		c.help()
		return nil
	case "ver", "ls":
		c.Render()
		return nil
	case "recargar":
		if err := c.engine.Load(ctx); err != nil {
			return err
		}
	case "buscar":
		if err := c.engine.SetSearch(ctx, rest); err != nil {
			return err
		}
	case "primera":
		strip.Press(strip.First, nav)
	case "anterior":
		strip.Press(strip.Prev, nav)
	case "siguiente":
		strip.Press(strip.Next, nav)
	case "ultima":
		strip.Press(strip.Last, nav)
	case "pagina":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("página inválida: %q", rest)
		}
		if err := c.engine.SetPage(ctx, n); err != nil {
			return err
		}
	case "mostrar":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("tamaño inválido: %q", rest)
		}
		if err := strip.ChoosePerPage(n, nav); err != nil {
			return err
		}
	case "columna":
		if err := c.engine.ToggleColumn(rest); err != nil {
			return err
		}
	case "sel":
		id, err := c.rowID(rest)
		if err != nil {
			return err
		}
		c.engine.ToggleRow(id)
	case "todos":
		c.engine.SelectAll(c.engine.HeaderState() != listing.Checked)
	case "borrar":
		id, err := c.rowID(rest)
		if err != nil {
			return err
		}
		if err := c.engine.Delete(ctx, id); err != nil {
			return err
		}
	case "deshacer", "undo":
		if err := c.engine.Undo(ctx); err != nil {
			return err
		}
	case "tipo":
		id, err := c.rowID(rest)
		if err != nil {
			return err
		}
		c.openTypePicker(ctx, id)
		return nil
	case "responsable":
		id, err := c.rowID(rest)
		if err != nil {
			return err
		}
		c.openUserPicker(ctx, id)
		return nil
	case "tipos":
		c.openTypePicker(ctx, "")
		return nil
	case "usuarios":
		c.openUserPicker(ctx, "")
		return nil
	case "zonas":
		c.printTimezones(rest)
		return nil
	case "nuevo":
		if err := c.createEvent(ctx, rest); err != nil {
			return err
		}
	default:
		return fmt.Errorf("comando desconocido %q (escribe 'ayuda')", cmd)
	}
	c.Render()
	return nil
}

// createEvent parses "nombre; tipo; responsable[; zona][; privado]"
func (c *Console) createEvent(ctx context.Context, rest string) error {
	parts := strings.Split(rest, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 {
		return errors.New("uso: nuevo <nombre>; <tipo>; <responsable>[; <zona>][; privado]")
	}

	f := forms.NewEventForm(c.now())
	f.Name = parts[0]
	f.EventTypeID = c.resolveType(parts[1])
	f.UserID = c.resolveUser(parts[2])
	for _, p := range parts[3:] {
		switch {
		case strings.EqualFold(p, "privado"):
			f.IsPublic = false
		case p != "":
			f.Timezone = p
		}
	}

	ev, err := forms.Submit(ctx, c.api, &f)
	if err != nil {
		return err
	}
	c.notice(listing.Notice{Kind: listing.NoticeSuccess, Message: "Evento creado correctamente: " + ev.Name})
	return c.engine.Load(ctx)
}

func (c *Console) resolveType(s string) string {
	for _, t := range c.types.List() {
		if t.ID == s || strings.EqualFold(t.Label, s) || t.Name == s {
			return t.ID
		}
	}
	return ""
}

func (c *Console) resolveUser(s string) string {
	for _, u := range c.users.List() {
		if u.ID == s || strings.EqualFold(u.Username, s) || strings.EqualFold(u.Email, s) {
			return u.ID
		}
	}
	return ""
}

// rowID accepts a 1-based row number on the current page or an event id
func (c *Console) rowID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	events := c.engine.Snapshot().Events
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(events) {
			return "", fmt.Errorf("fila %d fuera de rango", n)
		}
		return events[n-1].ID, nil
	}
	for _, ev := range events {
		if ev.ID == arg {
			return ev.ID, nil
		}
	}
	return "", listing.ErrUnknownRow
}

func (c *Console) eventByID(id string) (apiclient.Event, bool) {
	for _, ev := range c.engine.Snapshot().Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return apiclient.Event{}, false
}

func (c *Console) notice(n listing.Notice) {
	if n.Kind == listing.NoticeError {
		fmt.Fprintf(c.out, "❌ %s\n", n.Message)
		return
	}
	fmt.Fprintf(c.out, "✅ %s\n", n.Message)
}

func (c *Console) report(err error) {
	if err != nil {
		c.printErr(err)
	}
}

func (c *Console) printErr(err error) {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintf(c.out, "❌ %s\n", apiErr.Message)
		return
	}
	fmt.Fprintf(c.out, "❌ %v\n", err)
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	cmd, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}

func (c *Console) help() {
	fmt.Fprint(c.out, `Comandos:
  ver | recargar                  mostrar / volver a cargar la tabla
  buscar <texto>                  filtrar por nombre (vacío para limpiar)
  primera | anterior | siguiente | ultima | pagina <n>
  mostrar <5|10|20|50>            filas por página
  columna <id>                    alternar columna (name, type, createdBy, date, timezone, isPublic)
  sel <fila> | todos              selección
  tipo <fila> | responsable <fila>  reasignar con el selector
  tipos | usuarios                administrar directorios
  nuevo <nombre>; <tipo>; <responsable>[; <zona>][; privado]
  zonas [texto]                   catálogo de zonas horarias
  borrar <fila> | deshacer
  salir
`)
}
