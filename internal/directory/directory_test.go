package directory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
	"github.com/sharath018/event-scheduler-backend/internal/selector"
)

type fakeAPI struct {
	types    []apiclient.EventType
	users    []apiclient.User
	patches  []apiclient.UserPatch
	created  []apiclient.CreateUserInput
	names    []string
	failNext error
	seq      int
}

func (f *fakeAPI) fail() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeAPI) nextID(prefix string) string {
	f.seq++
	return prefix + string(rune('0'+f.seq))
}

func (f *fakeAPI) ListEventTypes(ctx context.Context) ([]apiclient.EventType, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.types, nil
}

func (f *fakeAPI) CreateEventType(ctx context.Context, name, label string) (*apiclient.EventType, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	f.names = append(f.names, name)
	t := apiclient.EventType{ID: f.nextID("t"), Name: name, Label: label}
	f.types = append(f.types, t)
	return &t, nil
}

func (f *fakeAPI) UpdateEventType(ctx context.Context, id, label string) (*apiclient.EventType, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	for i := range f.types {
		if f.types[i].ID == id {
			f.types[i].Label = label
			t := f.types[i]
			return &t, nil
		}
	}
	return nil, &apiclient.Error{Status: 404, Message: "Event type not found"}
}

func (f *fakeAPI) DeleteEventType(ctx context.Context, id string) error {
	return f.fail()
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]apiclient.User, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.users, nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, in apiclient.CreateUserInput) (*apiclient.User, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	f.created = append(f.created, in)
	u := apiclient.User{ID: f.nextID("u"), Username: in.Username, Email: in.Email, Contact: in.Contact}
	return &u, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id string, patch apiclient.UserPatch) (*apiclient.User, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	f.patches = append(f.patches, patch)
	u := apiclient.User{ID: id, Username: "ana", Email: "ana@x.com", Contact: "5512345678"}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Contact != nil {
		u.Contact = *patch.Contact
	}
	return &u, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id string) error {
	return f.fail()
}

func TestEventTypesSortedAndNotified(t *testing.T) {
	api := &fakeAPI{types: []apiclient.EventType{
		{ID: "t1", Name: "tramites", Label: "Trámites ante el SAT"},
		{ID: "t2", Name: "asesoria", Label: "asesoría personalizada"},
	}}
	d := NewEventTypes(api)

	var seen [][]apiclient.EventType
	unsubscribe := d.Subscribe(func(items []apiclient.EventType) { seen = append(seen, items) })

	require.NoError(t, d.Refresh(context.Background()))
	list := d.List()
	require.Len(t, list, 2)
	assert.Equal(t, "t2", list[0].ID)

	created, err := d.Create(context.Background(), "  Declaración Anual ")
	require.NoError(t, err)
	assert.Equal(t, "declaracion-anual", created.Name)
	assert.Equal(t, "Declaración Anual", created.Label)
	assert.Equal(t, []string{"asesoría personalizada", "Declaración Anual", "Trámites ante el SAT"}, labels(d.List()))

	unsubscribe()
	_, err = d.Update(context.Background(), "t1", "Zeta")
	require.NoError(t, err)
	assert.Len(t, seen, 2)

	got, ok := d.Lookup("t1")
	require.True(t, ok)
	assert.Equal(t, "Zeta", got.Label)
}

func TestEventTypesValidationAndFailures(t *testing.T) {
	api := &fakeAPI{types: []apiclient.EventType{{ID: "t1", Label: "A"}}}
	d := NewEventTypes(api)
	require.NoError(t, d.Refresh(context.Background()))

	_, err := d.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrLabelRequired)
	assert.Empty(t, api.names)

	api.failNext = &apiclient.Error{Status: 400, Message: "No se puede eliminar el tipo de evento porque tiene eventos asociados."}
	err = d.Delete(context.Background(), "t1")
	require.Error(t, err)
	_, ok := d.Lookup("t1")
	assert.True(t, ok, "entry stays until the server confirms")

	require.NoError(t, d.Delete(context.Background(), "t1"))
	_, ok = d.Lookup("t1")
	assert.False(t, ok)

	api.failNext = errors.New("offline")
	require.Error(t, d.Refresh(context.Background()))
	assert.Equal(t, 0, d.Len())
}

func TestSanitizeContact(t *testing.T) {
	assert.Equal(t, "1234567", SanitizeContact("abc123defgh4567"))
	assert.Equal(t, "5512345678", SanitizeContact("(55) 1234-5678 ext 99"))
	assert.Equal(t, "", SanitizeContact("sin número"))
}

func TestUserFormValidation(t *testing.T) {
	valid := UserForm{Username: "ana", Email: "ana@x.com", Contact: "5512345678", Password: "p", Confirm: "p"}

	tests := []struct {
		name   string
		mutate func(f *UserForm)
		want   string
	}{
		{"valid", func(f *UserForm) {}, ""},
		{"missing username", func(f *UserForm) { f.Username = " " }, msgRequired},
		{"bad email", func(f *UserForm) { f.Email = "ana@x" }, msgInvalidEmail},
		{"short contact after sanitising", func(f *UserForm) { f.Contact = "abc123defgh4567" }, msgInvalidPhone},
		{"contact sanitised to ten", func(f *UserForm) { f.Contact = "55-1234-5678-9" }, ""},
		{"missing password", func(f *UserForm) { f.Password, f.Confirm = "", "" }, msgRequired},
		{"mismatch", func(f *UserForm) { f.Confirm = "q" }, msgMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.Message)
		})
	}
}

func TestUsersCreateBlocksInvalidContact(t *testing.T) {
	api := &fakeAPI{}
	d := NewUsers(api)

	_, err := d.Create(context.Background(), UserForm{
		Username: "ana", Email: "ana@x.com", Contact: "abc123defgh4567", Password: "p", Confirm: "p",
	})
	require.Error(t, err)
	assert.Empty(t, api.created, "nothing is sent when the form is invalid")

	u, err := d.Create(context.Background(), UserForm{
		Username: "ana", Email: "ana@x.com", Contact: "55 1234 5678", Password: "p", Confirm: "p",
	})
	require.NoError(t, err)
	assert.Equal(t, "5512345678", api.created[0].Contact)
	_, ok := d.Lookup(u.ID)
	assert.True(t, ok)
}

func TestUsersPatchSendsOnlyChangedFields(t *testing.T) {
	api := &fakeAPI{users: []apiclient.User{{ID: "u1", Username: "ana", Email: "ana@x.com", Contact: "5512345678"}}}
	d := NewUsers(api)
	require.NoError(t, d.Refresh(context.Background()))

	patch, err := d.PatchFor("u1", UserForm{Username: "ana", Email: "ana@x.com", Contact: "5599999999"})
	require.NoError(t, err)
	assert.Nil(t, patch.Username)
	assert.Nil(t, patch.Email)
	assert.Nil(t, patch.Password)
	require.NotNil(t, patch.Contact)
	assert.Equal(t, "5599999999", *patch.Contact)

	_, err = d.PatchFor("u1", UserForm{Username: "ana", Email: "ana@x.com", Contact: "5512345678", Password: "n", Confirm: "m"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, msgMismatch, ve.Message)

	unchanged, err := d.PatchFor("u1", UserForm{Username: "ana", Email: "ana@x.com", Contact: "5512345678"})
	require.NoError(t, err)
	u, err := d.Update(context.Background(), "u1", unchanged)
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)
	assert.Empty(t, api.patches, "empty patch is not sent")

	_, err = d.Update(context.Background(), "ghost", apiclient.UserPatch{})
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Empty(t, api.patches, "empty patch for an unknown user is not sent either")

	u, err = d.Update(context.Background(), "u1", patch)
	require.NoError(t, err)
	assert.Equal(t, "5599999999", u.Contact)
	require.Len(t, api.patches, 1)
}

func TestUsersDeleteSurfacesRefusal(t *testing.T) {
	api := &fakeAPI{users: []apiclient.User{{ID: "u1", Username: "ana"}}}
	d := NewUsers(api)
	require.NoError(t, d.Refresh(context.Background()))

	api.failNext = &apiclient.Error{Status: 400, Message: "No se puede eliminar el usuario porque tiene eventos asociados."}
	err := d.Delete(context.Background(), "u1")
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "eventos asociados")
	assert.Equal(t, 1, d.Len())
}

func TestGeneratePassword(t *testing.T) {
	p, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, p, 12)
	for _, r := range p {
		assert.True(t, strings.ContainsRune(passwordChars, r))
	}

	var f UserForm
	require.NoError(t, f.FillGeneratedPassword())
	assert.Equal(t, f.Password, f.Confirm)
}

func TestEventTypeSourceDrivesSelector(t *testing.T) {
	api := &fakeAPI{types: []apiclient.EventType{{ID: "t1", Label: "Asesoría"}}}
	d := NewEventTypes(api)
	require.NoError(t, d.Refresh(context.Background()))

	ctl := selector.New(d.Source(), selector.Uncontrolled(""))
	ctl.OpenPopover()
	require.NoError(t, ctl.BeginCreate())
	item, err := ctl.SubmitCreate(context.Background(), EventTypeDraft{Label: "Nómina"})
	require.NoError(t, err)
	assert.Equal(t, item.ID, ctl.Value())
	assert.Equal(t, "Nómina", ctl.SelectedLabel())
	assert.Equal(t, selector.Closed, ctl.State())
	assert.Equal(t, []string{"nomina"}, api.names)
}

func labels(items []apiclient.EventType) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}
