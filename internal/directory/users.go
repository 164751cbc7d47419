package directory

import (
	"context"
	"errors"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
	"github.com/sharath018/event-scheduler-backend/internal/selector"
)

// ErrUnknownUser is returned for an empty edit of a user the directory has never seen
var ErrUnknownUser = errors.New("Usuario no encontrado")

type UserAPI interface {
	ListUsers(ctx context.Context) ([]apiclient.User, error)
	CreateUser(ctx context.Context, in apiclient.CreateUserInput) (*apiclient.User, error)
	UpdateUser(ctx context.Context, id string, patch apiclient.UserPatch) (*apiclient.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Users is the client-side user directory, kept sorted by username
type Users struct {
	*Store[apiclient.User]
	api UserAPI
}

func NewUsers(api UserAPI) *Users {
	return &Users{
		Store: NewStore(
			func(u apiclient.User) string { return u.ID },
			func(a, b apiclient.User) bool { return lessFold(a.Username, b.Username) },
		),
		api: api,
	}
}

func (d *Users) Refresh(ctx context.Context) error {
	items, err := d.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	d.Replace(items)
	return nil
}

func (d *Users) List() []apiclient.User { return d.Items() }

func (d *Users) Lookup(id string) (apiclient.User, bool) { return d.Get(id) }

// Create validates the form before anything goes over the wire
func (d *Users) Create(ctx context.Context, form UserForm) (*apiclient.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	created, err := d.api.CreateUser(ctx, apiclient.CreateUserInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Contact:  form.Contact,
	})
	if err != nil {
		return nil, err
	}
	d.Upsert(*created)
	return created, nil
}

// Update sends the patch as is. An empty patch returns the cached user without a request.
func (d *Users) Update(ctx context.Context, id string, patch apiclient.UserPatch) (*apiclient.User, error) {
	if patch.Empty() {
		u, ok := d.Lookup(id)
		if !ok {
			return nil, ErrUnknownUser
		}
		return &u, nil
	}
	updated, err := d.api.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	d.Upsert(*updated)
	return updated, nil
}

// PatchFor validates an edit form and keeps only the fields that differ from the cache
func (d *Users) PatchFor(id string, form UserForm) (apiclient.UserPatch, error) {
	if err := form.ValidateEdit(); err != nil {
		return apiclient.UserPatch{}, err
	}
	cur, _ := d.Lookup(id)

	var p apiclient.UserPatch
	if form.Username != cur.Username {
		p.Username = &form.Username
	}
	if form.Email != cur.Email {
		p.Email = &form.Email
	}
	if form.Contact != cur.Contact {
		p.Contact = &form.Contact
	}
	if form.Password != "" {
		p.Password = &form.Password
	}
	return p, nil
}

// Delete surfaces the server's refusal (e.g. the user still has events)
func (d *Users) Delete(ctx context.Context, id string) error {
	if err := d.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	d.Remove(id)
	return nil
}

// ===========================
// 🔽 Selector source

type userSource struct {
	d *Users
}

func (d *Users) Source() selector.Source[UserForm] {
	return userSource{d: d}
}

func (s userSource) Items() []selector.Item {
	items := s.d.Items()
	out := make([]selector.Item, len(items))
	for i, u := range items {
		out[i] = selector.Item{ID: u.ID, Label: u.Username}
	}
	return out
}

func (s userSource) Create(ctx context.Context, form UserForm) (selector.Item, error) {
	u, err := s.d.Create(ctx, form)
	if err != nil {
		return selector.Item{}, err
	}
	return selector.Item{ID: u.ID, Label: u.Username}, nil
}

func (s userSource) Update(ctx context.Context, id string, form UserForm) (selector.Item, error) {
	patch, err := s.d.PatchFor(id, form)
	if err != nil {
		return selector.Item{}, err
	}
	u, err := s.d.Update(ctx, id, patch)
	if err != nil {
		return selector.Item{}, err
	}
	return selector.Item{ID: u.ID, Label: u.Username}, nil
}

func (s userSource) Delete(ctx context.Context, id string) error {
	return s.d.Delete(ctx, id)
}

func (s userSource) Draft(id string) (UserForm, bool) {
	u, ok := s.d.Lookup(id)
	if !ok {
		return UserForm{}, false
	}
	return UserForm{Username: u.Username, Email: u.Email, Contact: SanitizeContact(u.Contact)}, true
}
