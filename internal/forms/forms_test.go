package forms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
)

type recorder struct {
	got []apiclient.CreateEventInput
}

func (r *recorder) CreateEvent(ctx context.Context, in apiclient.CreateEventInput) (*apiclient.Event, error) {
	r.got = append(r.got, in)
	return &apiclient.Event{ID: "e1", Name: in.Name, Timezone: in.Timezone, IsPublic: *in.IsPublic}, nil
}

var now = time.Date(2026, 5, 4, 10, 30, 0, 0, time.FixedZone("CST", -6*3600))

func TestNewEventFormDefaults(t *testing.T) {
	f := NewEventForm(now)
	assert.Equal(t, DefaultTimezone, f.Timezone)
	assert.True(t, f.IsPublic)
	assert.Equal(t, now, f.Date)
}

func TestEventFormValidation(t *testing.T) {
	valid := NewEventForm(now)
	valid.Name, valid.EventTypeID, valid.UserID = "Asesoría inicial", "t1", "u1"

	tests := []struct {
		name   string
		mutate func(f *EventForm)
		field  string
		msg    string
	}{
		{"valid", func(f *EventForm) {}, "", ""},
		{"short name", func(f *EventForm) { f.Name = " A " }, "Name", msgName},
		{"no type", func(f *EventForm) { f.EventTypeID = "" }, "EventTypeID", msgType},
		{"no user", func(f *EventForm) { f.UserID = "" }, "UserID", msgUser},
		{"zero date", func(f *EventForm) { f.Date = time.Time{} }, "Date", msgDate},
		{"bad timezone", func(f *EventForm) { f.Timezone = "Mars/Olympus" }, "Timezone", msgTimezone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.msg, fe.Message)
		})
	}
}

func TestSubmit(t *testing.T) {
	r := &recorder{}

	bad := NewEventForm(now)
	_, err := Submit(context.Background(), r, &bad)
	require.Error(t, err)
	assert.Empty(t, r.got)

	f := NewEventForm(now)
	f.Name, f.EventTypeID, f.UserID, f.IsPublic = "  Cita SAT  ", "t1", "u1", false
	ev, err := Submit(context.Background(), r, &f)
	require.NoError(t, err)
	assert.Equal(t, "e1", ev.ID)

	require.Len(t, r.got, 1)
	in := r.got[0]
	assert.Equal(t, "Cita SAT", in.Name)
	assert.Equal(t, time.UTC, in.Date.Location())
	assert.True(t, in.Date.Equal(now))
	require.NotNil(t, in.IsPublic)
	assert.False(t, *in.IsPublic)
}

func TestTimezoneCatalog(t *testing.T) {
	tz, group, ok := FindTimezone(DefaultTimezone)
	require.True(t, ok)
	assert.Equal(t, "México", group)
	assert.Contains(t, tz.Label, "Ciudad de México")

	for _, g := range TimezoneCatalog {
		for _, z := range g.Timezones {
			_, err := time.LoadLocation(z.Value)
			assert.NoError(t, err, z.Value)
		}
	}

	hits := FilterTimezones("cancún")
	require.Len(t, hits, 1)
	assert.Equal(t, "America/Cancun", hits[0].Timezones[0].Value)
	assert.Len(t, FilterTimezones(""), len(TimezoneCatalog))
	assert.Empty(t, FilterTimezones("atlantis"))
}
