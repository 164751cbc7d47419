package listing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
	"github.com/sharath018/event-scheduler-backend/internal/pagination"
)

// ===========================
// fakes

type fakeEvents struct {
	mu         sync.Mutex
	events     []apiclient.Event
	calls      []apiclient.ListEventsParams
	created    []apiclient.CreateEventInput
	seq        int
	listErr    error
	patchErr   error
	createErr  error
	hook       func(p apiclient.ListEventsParams)
	createHook func()
}

func (f *fakeEvents) ListEvents(ctx context.Context, p apiclient.ListEventsParams) (*apiclient.EventPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	hook := f.hook
	err := f.listErr
	f.mu.Unlock()

	if hook != nil {
		hook(p)
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var match []apiclient.Event
	for _, ev := range f.events {
		if strings.Contains(strings.ToLower(ev.Name), strings.ToLower(p.Search)) {
			match = append(match, ev)
		}
	}
	sort.SliceStable(match, func(i, j int) bool { return match[i].Date.After(match[j].Date) })

	total := (len(match) + p.Limit - 1) / p.Limit
	start := (p.Page - 1) * p.Limit
	if start > len(match) {
		start = len(match)
	}
	end := start + p.Limit
	if end > len(match) {
		end = len(match)
	}
	return &apiclient.EventPage{Events: append([]apiclient.Event(nil), match[start:end]...), TotalPages: total}, nil
}

func (f *fakeEvents) CreateEvent(ctx context.Context, in apiclient.CreateEventInput) (*apiclient.Event, error) {
	if f.createHook != nil {
		f.createHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	f.created = append(f.created, in)
	ev := apiclient.Event{
		ID: fmt.Sprintf("new-%d", f.seq), Name: in.Name, Description: in.Description, Date: in.Date,
		Timezone: in.Timezone, CreatedBy: in.UserID, EventTypeID: in.EventTypeID, IsPublic: *in.IsPublic,
	}
	f.events = append(f.events, ev)
	return &ev, nil
}

func (f *fakeEvents) ReassignEvent(ctx context.Context, id string, in apiclient.ReassignInput) (*apiclient.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	for i := range f.events {
		if f.events[i].ID != id {
			continue
		}
		if in.UserID != "" {
			f.events[i].CreatedBy = in.UserID
			f.events[i].User = &apiclient.User{ID: in.UserID, Username: "user-" + in.UserID}
		}
		if in.EventTypeID != "" {
			f.events[i].EventTypeID = in.EventTypeID
			f.events[i].EventType = &apiclient.EventType{ID: in.EventTypeID, Label: "type-" + in.EventTypeID}
		}
		ev := f.events[i]
		return &ev, nil
	}
	return nil, &apiclient.Error{Status: 404, Message: "Event not found"}
}

func (f *fakeEvents) DeleteEvent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		if f.events[i].ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return &apiclient.Error{Status: 404, Message: "Event not found"}
}

type fakeTimer struct {
	d       time.Duration
	fire    func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type timers struct {
	list []*fakeTimer
}

func (ts *timers) afterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, fire: f}
	ts.list = append(ts.list, t)
	return t
}

func (ts *timers) last() *fakeTimer { return ts.list[len(ts.list)-1] }

type typeDir map[string]apiclient.EventType

func (d typeDir) Lookup(id string) (apiclient.EventType, bool) { t, ok := d[id]; return t, ok }

type userDir map[string]apiclient.User

func (d userDir) Lookup(id string) (apiclient.User, bool) { u, ok := d[id]; return u, ok }

var base = time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)

func seed(n int) []apiclient.Event {
	out := make([]apiclient.Event, n)
	for i := range out {
		out[i] = apiclient.Event{
			ID:          fmt.Sprintf("e%d", i+1),
			Name:        fmt.Sprintf("Cita %d", i+1),
			Date:        base.Add(time.Duration(i) * time.Hour),
			Timezone:    "America/Mexico_City",
			IsPublic:    true,
			EventTypeID: "t1",
			CreatedBy:   "u1",
			EventType:   &apiclient.EventType{ID: "t1", Label: "Asesoría"},
			User:        &apiclient.User{ID: "u1", Username: "ana"},
		}
	}
	return out
}

type harness struct {
	api     *fakeEvents
	timers  *timers
	notices []Notice
	engine  *Engine
}

func newHarness(t *testing.T, events []apiclient.Event) *harness {
	t.Helper()
	h := &harness{api: &fakeEvents{events: events}, timers: &timers{}}
	h.engine = NewEngine(h.api, Options{
		Types:     typeDir{"t1": {ID: "t1", Label: "Asesoría"}},
		Users:     userDir{"u1": {ID: "u1", Username: "ana"}},
		Notify:    func(n Notice) { h.notices = append(h.notices, n) },
		AfterFunc: h.timers.afterFunc,
	})
	t.Cleanup(h.engine.Close)
	return h
}

// ===========================
// tests

func TestLoadDefaults(t *testing.T) {
	h := newHarness(t, seed(12))
	require.NoError(t, h.engine.Load(context.Background()))

	s := h.engine.Snapshot()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, pagination.DefaultPageSize, s.PerPage)
	assert.Equal(t, 3, s.TotalPages)
	assert.False(t, s.Loading)
	require.Len(t, s.Events, 5)
	assert.Equal(t, "e12", s.Events[0].ID, "newest first")
}

func TestQueryChangesRefetch(t *testing.T) {
	h := newHarness(t, seed(12))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))

	require.NoError(t, h.engine.SetPage(ctx, 3))
	assert.Len(t, h.engine.Snapshot().Events, 2)

	require.NoError(t, h.engine.SetPage(ctx, 3))
	assert.Len(t, h.api.calls, 2, "same page does not refetch")

	require.NoError(t, h.engine.SetPerPage(ctx, 10))
	s := h.engine.Snapshot()
	assert.Equal(t, 1, s.Page)
	assert.Len(t, s.Events, 10)
	assert.Equal(t, 2, s.TotalPages)

	assert.ErrorIs(t, h.engine.SetPerPage(ctx, 7), pagination.ErrPageSize)

	require.NoError(t, h.engine.SetPage(ctx, 2))
	require.NoError(t, h.engine.SetSearch(ctx, " cita 1 "))
	s = h.engine.Snapshot()
	assert.Equal(t, 1, s.Page, "search resets to the first page")
	assert.Equal(t, "cita 1", s.Search)
	assert.Len(t, s.Events, 4) // 1, 10, 11, 12
	last := h.api.calls[len(h.api.calls)-1]
	assert.Equal(t, apiclient.ListEventsParams{Page: 1, Limit: 10, Search: "cita 1"}, last)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	h := newHarness(t, seed(3))
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	h.api.hook = func(p apiclient.ListEventsParams) {
		if p.Search == "cita 1" {
			close(started)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() { done <- h.engine.SetSearch(ctx, "cita 1") }()
	<-started

	require.NoError(t, h.engine.SetSearch(ctx, "cita 2"))
	close(release)
	require.NoError(t, <-done)

	s := h.engine.Snapshot()
	assert.Equal(t, "cita 2", s.Search)
	require.Len(t, s.Events, 1)
	assert.Equal(t, "e2", s.Events[0].ID)
	assert.False(t, s.Loading)
}

func TestFetchFailureKeepsPreviousPage(t *testing.T) {
	h := newHarness(t, seed(6))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))
	h.engine.SelectAll(true)

	h.api.listErr = errors.New("offline")
	require.Error(t, h.engine.SetPage(ctx, 2))

	s := h.engine.Snapshot()
	assert.Len(t, s.Events, 5)
	assert.Equal(t, 5, s.Selected)
	assert.False(t, s.Loading)
}

func TestSelection(t *testing.T) {
	h := newHarness(t, seed(7))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))

	assert.Equal(t, Unchecked, h.engine.HeaderState())
	h.engine.ToggleRow("e7")
	h.engine.ToggleRow("not-here")
	assert.Equal(t, Indeterminate, h.engine.HeaderState())
	assert.True(t, h.engine.IsSelected("e7"))

	h.engine.SelectAll(true)
	assert.Equal(t, Checked, h.engine.HeaderState())
	assert.Equal(t, 5, h.engine.SelectedCount(), "select-all is bounded to the page")

	h.engine.ToggleRow("e7")
	assert.Equal(t, Indeterminate, h.engine.HeaderState())

	require.NoError(t, h.engine.SetPage(ctx, 2))
	assert.Equal(t, 0, h.engine.SelectedCount(), "cleared on fetch")
}

func TestColumns(t *testing.T) {
	h := newHarness(t, nil)
	visible := h.engine.VisibleColumns()
	ids := make([]string, len(visible))
	for i, c := range visible {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{ColName, ColType, ColCreatedBy, ColDate}, ids)

	require.NoError(t, h.engine.ToggleColumn(ColTimezone))
	require.NoError(t, h.engine.ToggleColumn(ColName))
	assert.Len(t, h.engine.VisibleColumns(), 4)
	assert.Error(t, h.engine.ToggleColumn("nope"))
	assert.Empty(t, h.api.calls, "toggling never fetches")
}

func TestRowsResolveLabels(t *testing.T) {
	events := seed(3)
	events[1].EventTypeID, events[1].EventType = "gone", nil
	events[2].CreatedBy, events[2].User = "u9", &apiclient.User{ID: "u9", Username: "beto"}
	h := newHarness(t, events)
	require.NoError(t, h.engine.Load(context.Background()))
	h.engine.ToggleRow("e1")

	rows := h.engine.Rows()
	require.Len(t, rows, 3)
	byID := map[string]Row{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.Equal(t, NotAvailable, byID["e2"].Cells[ColType])
	assert.Equal(t, "beto", byID["e3"].Cells[ColCreatedBy], "nested object when the directory misses")
	assert.Equal(t, "Asesoría", byID["e1"].Cells[ColType])
	assert.Equal(t, "01/03/2026 09:00", byID["e1"].Cells[ColDate])
	assert.Equal(t, "Sí", byID["e1"].Cells[ColIsPublic])
	assert.True(t, byID["e1"].Selected)
}

func TestReassignMergesWithoutRefetch(t *testing.T) {
	h := newHarness(t, seed(2))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))
	calls := len(h.api.calls)

	require.NoError(t, h.engine.ReassignUser(ctx, "e1", "u2"))
	require.NoError(t, h.engine.ReassignType(ctx, "e1", "t2"))
	assert.Len(t, h.api.calls, calls)

	var row apiclient.Event
	for _, ev := range h.engine.Snapshot().Events {
		if ev.ID == "e1" {
			row = ev
		}
	}
	assert.Equal(t, "u2", row.CreatedBy)
	assert.Equal(t, "user-u2", row.User.Username)
	assert.Equal(t, "t2", row.EventTypeID)
	assert.Equal(t, "Cita 1", row.Name)
	assert.Equal(t, base, row.Date)
	require.Len(t, h.notices, 2)
	assert.Equal(t, msgUserUpdated, h.notices[0].Message)

	h.api.patchErr = &apiclient.Error{Status: 400, Message: "El usuario no existe"}
	require.Error(t, h.engine.ReassignUser(ctx, "e1", "u3"))
	assert.Equal(t, Notice{Kind: NoticeError, Message: msgUserFailed}, h.notices[2])
	for _, ev := range h.engine.Snapshot().Events {
		if ev.ID == "e1" {
			assert.Equal(t, "u2", ev.CreatedBy)
		}
	}
}

func TestDeleteAndUndo(t *testing.T) {
	h := newHarness(t, seed(6))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))

	assert.ErrorIs(t, h.engine.Delete(ctx, "missing"), ErrUnknownRow)
	assert.ErrorIs(t, h.engine.Undo(ctx), ErrNothingToUndo)

	require.NoError(t, h.engine.Delete(ctx, "e6"))
	assert.True(t, h.engine.UndoAvailable())
	assert.Equal(t, DefaultUndoWindow, h.timers.last().d)
	assert.Len(t, h.engine.Snapshot().Events, 5)

	require.NoError(t, h.engine.Undo(ctx))
	assert.False(t, h.engine.UndoAvailable())
	assert.True(t, h.timers.last().stopped)

	require.Len(t, h.api.created, 1)
	in := h.api.created[0]
	assert.Equal(t, "Cita 6", in.Name)
	assert.Equal(t, "u1", in.UserID)
	assert.Equal(t, "t1", in.EventTypeID)
	assert.Equal(t, base.Add(5*time.Hour), in.Date)
	assert.True(t, *in.IsPublic)

	s := h.engine.Snapshot()
	assert.Equal(t, "new-1", s.Events[0].ID, "restored copy gets a new id")
	assert.Equal(t, "Cita 6", s.Events[0].Name)
}

func TestOverlappingUndoRestoresOnce(t *testing.T) {
	h := newHarness(t, seed(3))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))
	require.NoError(t, h.engine.Delete(ctx, "e1"))

	var once sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	h.api.createHook = func() {
		once.Do(func() { close(started) })
		<-release
	}

	done := make(chan error, 1)
	go func() { done <- h.engine.Undo(ctx) }()
	<-started

	assert.False(t, h.engine.UndoAvailable(), "slot is claimed while the restore is in flight")
	assert.ErrorIs(t, h.engine.Undo(ctx), ErrNothingToUndo)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, h.api.created, 1)
}

func TestFailedUndoKeepsSlot(t *testing.T) {
	h := newHarness(t, seed(3))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))
	require.NoError(t, h.engine.Delete(ctx, "e1"))

	h.api.createErr = errors.New("connection refused")
	assert.Error(t, h.engine.Undo(ctx))
	assert.True(t, h.engine.UndoAvailable())
	assert.False(t, h.timers.last().stopped, "restaged record gets a fresh timer")
	assert.Equal(t, NoticeError, h.notices[len(h.notices)-1].Kind)

	h.api.createErr = nil
	require.NoError(t, h.engine.Undo(ctx))
	assert.False(t, h.engine.UndoAvailable())
	require.Len(t, h.api.created, 1)
	assert.Equal(t, "Cita 1", h.api.created[0].Name)
}

func TestUndoExpires(t *testing.T) {
	h := newHarness(t, seed(3))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))

	require.NoError(t, h.engine.Delete(ctx, "e1"))
	first := h.timers.last()
	require.NoError(t, h.engine.Delete(ctx, "e2"))
	assert.True(t, first.stopped, "a new deletion restarts the timer")

	first.fire()
	assert.True(t, h.engine.UndoAvailable(), "stale timer does nothing")

	h.timers.last().fire()
	assert.False(t, h.engine.UndoAvailable())
	assert.ErrorIs(t, h.engine.Undo(ctx), ErrNothingToUndo)
	assert.Empty(t, h.api.created)
}

func TestDeleteLastRowClampsPage(t *testing.T) {
	h := newHarness(t, seed(6))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))
	require.NoError(t, h.engine.SetPage(ctx, 2))
	require.Len(t, h.engine.Snapshot().Events, 1)

	require.NoError(t, h.engine.Delete(ctx, "e1"))
	s := h.engine.Snapshot()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 1, s.TotalPages)
	assert.Len(t, s.Events, 5)
}

func TestCloseCancelsUndo(t *testing.T) {
	h := newHarness(t, seed(2))
	ctx := context.Background()
	require.NoError(t, h.engine.Load(ctx))
	require.NoError(t, h.engine.Delete(ctx, "e1"))

	h.engine.Close()
	assert.True(t, h.timers.last().stopped)
	assert.False(t, h.engine.UndoAvailable())
	assert.ErrorIs(t, h.engine.Load(ctx), ErrClosed)
}
