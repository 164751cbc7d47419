package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/event-scheduler-backend/config"
	"github.com/sharath018/event-scheduler-backend/database"
	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
	"github.com/sharath018/event-scheduler-backend/internal/listing"
)

type testEnv struct {
	srv    *httptest.Server
	client *apiclient.Client
	svcs   *Services
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory(strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	r := gin.New()
	svcs := Setup(r, &config.Config{}, Deps{DB: db})
	require.NoError(t, svcs.EventTypes.SeedDefaults(context.Background()))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, client: apiclient.New(srv.URL, srv.Client()), svcs: svcs}
}

func (e *testEnv) user(t *testing.T, name string) *apiclient.User {
	t.Helper()
	u, err := e.client.CreateUser(context.Background(), apiclient.CreateUserInput{
		Username: name, Email: name + "@x.com", Password: "p", Contact: "5512345678",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) firstType(t *testing.T) apiclient.EventType {
	t.Helper()
	types, err := e.client.ListEventTypes(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, types)
	return types[0]
}

func (e *testEnv) event(t *testing.T, name string, at time.Time, userID, typeID string) *apiclient.Event {
	t.Helper()
	ev, err := e.client.CreateEvent(context.Background(), apiclient.CreateEventInput{
		Name: name, Date: at, UserID: userID, EventTypeID: typeID, Timezone: "America/Mexico_City",
	})
	require.NoError(t, err)
	return ev
}

func TestHealthAndStreamDisabled(t *testing.T) {
	env := setup(t)

	resp, err := env.srv.Client().Get(env.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = env.srv.Client().Get(env.srv.URL + "/api/changes/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
}

func TestSeededTypesSortedByLabel(t *testing.T) {
	env := setup(t)
	types, err := env.client.ListEventTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Asesoría personalizada", types[0].Label)
	assert.Equal(t, "Trámites ante el SAT", types[1].Label)
}

func TestCreatedEventIsResolvable(t *testing.T) {
	env := setup(t)
	u := env.user(t, "ana")
	typ := env.firstType(t)

	created := env.event(t, "Cita", time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC), u.ID, typ.ID)
	got, err := env.client.GetEvent(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "ana", got.User.Username)
	assert.Equal(t, typ.Label, got.EventType.Label)
	assert.True(t, got.IsPublic)
}

func TestDuplicateEmailRejected(t *testing.T) {
	env := setup(t)
	env.user(t, "ana")

	_, err := env.client.CreateUser(context.Background(), apiclient.CreateUserInput{
		Username: "ana", Email: "ana@x.com", Password: "p", Contact: "5512345678",
	})
	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "El email ya está registrado.", apiErr.Message)
}

func TestUserDeleteGuard(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	busy := env.user(t, "ana")
	idle := env.user(t, "bea")
	env.event(t, "Cita", time.Now().UTC(), busy.ID, env.firstType(t).ID)

	err := env.client.DeleteUser(ctx, busy.ID)
	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	require.NoError(t, env.client.DeleteUser(ctx, idle.ID))
	users, err := env.client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ana", users[0].Username)
}

func TestSearchAndPagination(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	u := env.user(t, "ana")
	typ := env.firstType(t)
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("Foo %d", i)
		if i%2 == 1 {
			name = fmt.Sprintf("Bar %d", i)
		}
		env.event(t, name, base.Add(time.Duration(i)*time.Hour), u.ID, typ.ID)
	}

	page, err := env.client.ListEvents(ctx, apiclient.ListEventsParams{Page: 1, Limit: 3, Search: "fOO"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages) // 4 matches
	require.Len(t, page.Events, 3)
	assert.Equal(t, "Foo 6", page.Events[0].Name)
	for _, ev := range page.Events {
		assert.Contains(t, strings.ToLower(ev.Name), "foo")
	}

	page, err = env.client.ListEvents(ctx, apiclient.ListEventsParams{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Events, 5)
	assert.Equal(t, 2, page.TotalPages)
}

func TestReassignTouchesOnlyTheForeignKey(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	ana, bea := env.user(t, "ana"), env.user(t, "bea")
	typ := env.firstType(t)
	at := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	ev := env.event(t, "Cita", at, ana.ID, typ.ID)

	got, err := env.client.ReassignEvent(ctx, ev.ID, apiclient.ReassignInput{UserID: bea.ID})
	require.NoError(t, err)
	assert.Equal(t, bea.ID, got.CreatedBy)
	assert.Equal(t, "bea", got.User.Username)
	assert.Equal(t, typ.ID, got.EventTypeID)
	assert.Equal(t, "Cita", got.Name)
	assert.True(t, got.Date.Equal(at))

	_, err = env.client.ReassignEvent(ctx, ev.ID, apiclient.ReassignInput{UserID: "missing"})
	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestListingUndoRecreatesWithNewID(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	u := env.user(t, "ana")
	typ := env.firstType(t)
	at := time.Date(2026, 4, 4, 18, 30, 0, 0, time.UTC)
	original := env.event(t, "Declaración", at, u.ID, typ.ID)

	var fire func()
	engine := listing.NewEngine(env.client, listing.Options{
		AfterFunc: func(d time.Duration, f func()) listing.Timer {
			fire = f
			return time.NewTimer(time.Hour)
		},
	})
	t.Cleanup(engine.Close)

	require.NoError(t, engine.Load(ctx))
	require.NoError(t, engine.Delete(ctx, original.ID))
	assert.Empty(t, engine.Snapshot().Events)

	require.NoError(t, engine.Undo(ctx))
	events := engine.Snapshot().Events
	require.Len(t, events, 1)
	restored := events[0]
	assert.NotEqual(t, original.ID, restored.ID)
	assert.Equal(t, original.Name, restored.Name)
	assert.True(t, restored.Date.Equal(at))
	assert.Equal(t, original.Timezone, restored.Timezone)
	assert.Equal(t, original.CreatedBy, restored.CreatedBy)
	assert.Equal(t, original.EventTypeID, restored.EventTypeID)

	// expiry after the window leaves nothing to undo
	require.NoError(t, engine.Delete(ctx, restored.ID))
	fire()
	assert.ErrorIs(t, engine.Undo(ctx), listing.ErrNothingToUndo)
}

func TestExportAndAuditTrail(t *testing.T) {
	env := setup(t)
	u := env.user(t, "ana")
	env.event(t, "Cita SAT", time.Now().UTC(), u.ID, env.firstType(t).ID)

	resp, err := env.srv.Client().Get(env.srv.URL + "/api/events/export?format=csv&search=sat")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "events_report_")

	resp, err = env.srv.Client().Get(env.srv.URL + "/api/audit-logs?resource=events")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Success bool `json:"success"`
		Total   int  `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.GreaterOrEqual(t, body.Total, 1)
}
