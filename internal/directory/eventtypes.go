package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/sharath018/event-scheduler-backend/internal/apiclient"
	"github.com/sharath018/event-scheduler-backend/internal/selector"
	"github.com/sharath018/event-scheduler-backend/utils"
)

var ErrLabelRequired = errors.New("La etiqueta es obligatoria")

type EventTypeAPI interface {
	ListEventTypes(ctx context.Context) ([]apiclient.EventType, error)
	CreateEventType(ctx context.Context, name, label string) (*apiclient.EventType, error)
	UpdateEventType(ctx context.Context, id, label string) (*apiclient.EventType, error)
	DeleteEventType(ctx context.Context, id string) error
}

// EventTypes is the client-side event type directory, kept sorted by label
type EventTypes struct {
	*Store[apiclient.EventType]
	api EventTypeAPI
}

func NewEventTypes(api EventTypeAPI) *EventTypes {
	return &EventTypes{
		Store: NewStore(
			func(t apiclient.EventType) string { return t.ID },
			func(a, b apiclient.EventType) bool { return lessFold(a.Label, b.Label) },
		),
		api: api,
	}
}

// Refresh reloads the whole directory; the cache is untouched on failure
func (d *EventTypes) Refresh(ctx context.Context) error {
	items, err := d.api.ListEventTypes(ctx)
	if err != nil {
		return err
	}
	d.Replace(items)
	return nil
}

func (d *EventTypes) List() []apiclient.EventType { return d.Items() }

func (d *EventTypes) Lookup(id string) (apiclient.EventType, bool) { return d.Get(id) }

// Create derives the immutable name from the label
func (d *EventTypes) Create(ctx context.Context, label string) (*apiclient.EventType, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrLabelRequired
	}
	created, err := d.api.CreateEventType(ctx, utils.Slugify(label), label)
	if err != nil {
		return nil, err
	}
	d.Upsert(*created)
	return created, nil
}

func (d *EventTypes) Update(ctx context.Context, id, label string) (*apiclient.EventType, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrLabelRequired
	}
	updated, err := d.api.UpdateEventType(ctx, id, label)
	if err != nil {
		return nil, err
	}
	d.Upsert(*updated)
	return updated, nil
}

// Delete drops the cache entry only once the server confirms
func (d *EventTypes) Delete(ctx context.Context, id string) error {
	if err := d.api.DeleteEventType(ctx, id); err != nil {
		return err
	}
	d.Remove(id)
	return nil
}

// ===========================
// 🔽 Selector source

// EventTypeDraft is what the create/edit modals edit
type EventTypeDraft struct {
	Label string
}

type eventTypeSource struct {
	d *EventTypes
}

// Source adapts the directory for a selector.Control
func (d *EventTypes) Source() selector.Source[EventTypeDraft] {
	return eventTypeSource{d: d}
}

func (s eventTypeSource) Items() []selector.Item {
	items := s.d.Items()
	out := make([]selector.Item, len(items))
	for i, t := range items {
		out[i] = selector.Item{ID: t.ID, Label: t.Label}
	}
	return out
}

func (s eventTypeSource) Create(ctx context.Context, draft EventTypeDraft) (selector.Item, error) {
	t, err := s.d.Create(ctx, draft.Label)
	if err != nil {
		return selector.Item{}, err
	}
	return selector.Item{ID: t.ID, Label: t.Label}, nil
}

func (s eventTypeSource) Update(ctx context.Context, id string, draft EventTypeDraft) (selector.Item, error) {
	t, err := s.d.Update(ctx, id, draft.Label)
	if err != nil {
		return selector.Item{}, err
	}
	return selector.Item{ID: t.ID, Label: t.Label}, nil
}

func (s eventTypeSource) Delete(ctx context.Context, id string) error {
	return s.d.Delete(ctx, id)
}

func (s eventTypeSource) Draft(id string) (EventTypeDraft, bool) {
	t, ok := s.d.Lookup(id)
	if !ok {
		return EventTypeDraft{}, false
	}
	return EventTypeDraft{Label: t.Label}, true
}

func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
