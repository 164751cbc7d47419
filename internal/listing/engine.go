package listing

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
	"github.com/sharath018/event-scheduler-backend/internal/pagination"
)

const (
	DefaultUndoWindow = 3 * time.Second

	msgUserUpdated   = "Responsable actualizado correctamente"
	msgUserFailed    = "Error al actualizar el responsable"
	msgTypeUpdated   = "Tipo de evento actualizado correctamente"
	msgTypeFailed    = "Error al actualizar el tipo de evento"
	msgDeleted       = "Evento eliminado correctamente."
	msgDeleteFailed  = "No se pudo eliminar el evento"
	msgRestored      = "Evento restaurado"
	msgRestoreFailed = "No se pudo restaurar el evento"
)

var (
	ErrUnknownRow    = errors.New("listing: event is not on the current page")
	ErrNothingToUndo = errors.New("listing: nothing to undo")
	ErrClosed        = errors.New("listing: engine closed")
)

// EventAPI is the slice of the HTTP client the engine needs
type EventAPI interface {
	ListEvents(ctx context.Context, p apiclient.ListEventsParams) (*apiclient.EventPage, error)
	CreateEvent(ctx context.Context, in apiclient.CreateEventInput) (*apiclient.Event, error)
	ReassignEvent(ctx context.Context, id string, in apiclient.ReassignInput) (*apiclient.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type TypeLookup interface {
	Lookup(id string) (apiclient.EventType, bool)
}

type UserLookup interface {
	Lookup(id string) (apiclient.User, bool)
}

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a transient notification for the user
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Timer is what AfterFunc hands back; *time.Timer satisfies it
type Timer interface {
	Stop() bool
}

type Options struct {
	Types      TypeLookup
	Users      UserLookup
	Notify     func(Notice)
	OnChange   func()
	PerPage    int
	UndoWindow time.Duration
	AfterFunc  func(d time.Duration, f func()) Timer
}

// Engine owns one listing screen: query state, the current page, columns,
// row selection and the pending undo slot.
type Engine struct {
	api  EventAPI
	opts Options

	mu         sync.Mutex
	page       int
	perPage    int
	search     string
	events     []apiclient.Event
	totalPages int
	loading    bool
	seq        uint64
	columns    []Column
	selected   map[string]struct{}
	undo       *apiclient.Event
	undoGen    uint64
	undoTimer  Timer
	closed     bool
}

func NewEngine(api EventAPI, opts Options) *Engine {
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if !pagination.ValidPageSize(opts.PerPage) {
		opts.PerPage = pagination.DefaultPageSize
	}
	return &Engine{
		api:      api,
		opts:     opts,
		page:     1,
		perPage:  opts.PerPage,
		columns:  DefaultColumns(),
		selected: make(map[string]struct{}),
	}
}

// Snapshot is a read-only copy of the query and result state
type Snapshot struct {
	Page          int
	PerPage       int
	Search        string
	TotalPages    int
	Loading       bool
	Events        []apiclient.Event
	Selected      int
	UndoAvailable bool
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Page:          e.page,
		PerPage:       e.perPage,
		Search:        e.search,
		TotalPages:    e.totalPages,
		Loading:       e.loading,
		Events:        append([]apiclient.Event(nil), e.events...),
		Selected:      len(e.selected),
		UndoAvailable: e.undo != nil,
	}
}

// ===========================
// 🔎 Query state

// Load fetches the current page
func (e *Engine) Load(ctx context.Context) error {
	return e.fetch(ctx)
}

func (e *Engine) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	e.mu.Lock()
	changed := e.page != page
	e.page = page
	e.mu.Unlock()
	if !changed {
		return nil
	}
	return e.fetch(ctx)
}

// SetPerPage accepts only the strip's sizes and goes back to page 1
func (e *Engine) SetPerPage(ctx context.Context, n int) error {
	if !pagination.ValidPageSize(n) {
		return pagination.ErrPageSize
	}
	e.mu.Lock()
	changed := e.perPage != n || e.page != 1
	e.perPage = n
	e.page = 1
	e.mu.Unlock()
	if !changed {
		return nil
	}
	return e.fetch(ctx)
}

// SetSearch always goes back to page 1
func (e *Engine) SetSearch(ctx context.Context, q string) error {
	q = strings.TrimSpace(q)
	e.mu.Lock()
	changed := e.search != q || e.page != 1
	e.search = q
	e.page = 1
	e.mu.Unlock()
	if !changed {
		return nil
	}
	return e.fetch(ctx)
}

// fetch applies a result only if no newer fetch was issued meanwhile.
// A failed fetch leaves the previous page in place.
func (e *Engine) fetch(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.seq++
	seq := e.seq
	params := apiclient.ListEventsParams{Page: e.page, Limit: e.perPage, Search: e.search}
	e.loading = true
	e.mu.Unlock()
	e.changed()

	res, err := e.api.ListEvents(ctx, params)

	e.mu.Lock()
	if seq != e.seq {
		e.mu.Unlock()
		return nil
	}
	e.loading = false
	if err != nil {
		e.mu.Unlock()
		log.Printf("❌ Error loading events: %v", err)
		e.changed()
		return err
	}

	e.events = res.Events
	e.totalPages = res.TotalPages
	e.selected = make(map[string]struct{})

	// past the end after a delete or a shrinking search: land on the last page
	refetch := len(res.Events) == 0 && res.TotalPages > 0 && e.page > res.TotalPages
	if refetch {
		e.page = res.TotalPages
	}
	e.mu.Unlock()
	e.changed()

	if refetch {
		return e.fetch(ctx)
	}
	return nil
}

// ===========================
// ✏️ Inline reassignment

// ReassignUser PATCHes only userId and merges the returned user into the row
func (e *Engine) ReassignUser(ctx context.Context, eventID, userID string) error {
	return e.reassign(ctx, eventID, apiclient.ReassignInput{UserID: userID}, msgUserUpdated, msgUserFailed,
		func(row *apiclient.Event, got *apiclient.Event) {
			row.CreatedBy = got.CreatedBy
			row.User = got.User
		})
}

// ReassignType PATCHes only eventTypeId and merges the returned type into the row
func (e *Engine) ReassignType(ctx context.Context, eventID, typeID string) error {
	return e.reassign(ctx, eventID, apiclient.ReassignInput{EventTypeID: typeID}, msgTypeUpdated, msgTypeFailed,
		func(row *apiclient.Event, got *apiclient.Event) {
			row.EventTypeID = got.EventTypeID
			row.EventType = got.EventType
		})
}

func (e *Engine) reassign(ctx context.Context, eventID string, in apiclient.ReassignInput, okMsg, failMsg string, merge func(row, got *apiclient.Event)) error {
	got, err := e.api.ReassignEvent(ctx, eventID, in)
	if err != nil {
		log.Printf("❌ Error reassigning event %s: %v", eventID, err)
		e.notify(NoticeError, failMsg)
		return err
	}

	e.mu.Lock()
	for i := range e.events {
		if e.events[i].ID == eventID {
			merge(&e.events[i], got)
			break
		}
	}
	e.mu.Unlock()

	e.notify(NoticeSuccess, okMsg)
	e.changed()
	return nil
}

// ===========================
// 🗑️ Delete and undo

// Delete removes a row on the current page, stages it for undo and re-fetches
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	var staged *apiclient.Event
	for i := range e.events {
		if e.events[i].ID == id {
			ev := e.events[i]
			staged = &ev
			break
		}
	}
	e.mu.Unlock()
	if staged == nil {
		return ErrUnknownRow
	}

	if err := e.api.DeleteEvent(ctx, id); err != nil {
		log.Printf("❌ Error deleting event %s: %v", id, err)
		e.notify(NoticeError, msgDeleteFailed)
		return err
	}

	e.stage(staged)
	e.notify(NoticeSuccess, msgDeleted)
	return e.fetch(ctx)
}

// stage puts ev in the undo slot and restarts the expiry timer
func (e *Engine) stage(ev *apiclient.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stageLocked(ev)
}

func (e *Engine) stageLocked(ev *apiclient.Event) {
	if e.undoTimer != nil {
		e.undoTimer.Stop()
	}
	e.undo = ev
	e.undoGen++
	gen := e.undoGen
	e.undoTimer = e.opts.AfterFunc(e.opts.UndoWindow, func() { e.expire(gen) })
}

func (e *Engine) expire(gen uint64) {
	e.mu.Lock()
	if gen != e.undoGen || e.undo == nil {
		e.mu.Unlock()
		return
	}
	e.undo = nil
	e.undoTimer = nil
	e.mu.Unlock()
	e.changed()
}

func (e *Engine) UndoAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo != nil
}

// Undo re-creates the staged event through POST /api/events. The copy gets a new id.
// The slot is claimed before the request so overlapping calls restore at most once.
func (e *Engine) Undo(ctx context.Context) error {
	e.mu.Lock()
	ev := e.undo
	if ev == nil {
		e.mu.Unlock()
		return ErrNothingToUndo
	}
	if e.undoTimer != nil {
		e.undoTimer.Stop()
	}
	e.undo = nil
	e.undoTimer = nil
	e.undoGen++
	e.mu.Unlock()

	isPublic := ev.IsPublic
	_, err := e.api.CreateEvent(ctx, apiclient.CreateEventInput{
		Name:        ev.Name,
		Description: ev.Description,
		Date:        ev.Date,
		Timezone:    ev.Timezone,
		UserID:      ev.CreatedBy,
		EventTypeID: ev.EventTypeID,
		IsPublic:    &isPublic,
	})
	if err != nil {
		log.Printf("❌ Failed to undo deletion of %s: %v", ev.ID, err)
		e.restage(ev)
		e.notify(NoticeError, msgRestoreFailed)
		return err
	}

	e.notify(NoticeSuccess, msgRestored)
	return e.fetch(ctx)
}

// restage puts ev back after a failed restore unless a newer deletion or Close took the slot
func (e *Engine) restage(ev *apiclient.Event) {
	e.mu.Lock()
	if e.undo != nil || e.closed {
		e.mu.Unlock()
		return
	}
	e.stageLocked(ev)
	e.mu.Unlock()
	e.changed()
}

// Close cancels the undo timer and drops the staged record
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.undoTimer != nil {
		e.undoTimer.Stop()
	}
	e.undo = nil
	e.undoTimer = nil
	e.undoGen++
	e.closed = true
}

func (e *Engine) notify(kind NoticeKind, msg string) {
	if e.opts.Notify != nil {
		e.opts.Notify(Notice{Kind: kind, Message: msg})
	}
}

func (e *Engine) changed() {
	if e.opts.OnChange != nil {
		e.opts.OnChange()
	}
}
