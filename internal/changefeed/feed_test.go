package changefeed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	changes []Change
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, ch Change) error {
	p.changes = append(p.changes, ch)
	return p.err
}

type memoryCache struct {
	data        map[string]any
	invalidated []string
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string]any{}} }

func (m *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	*(dst.(*[]string)) = v.([]string)
	return true, nil
}

func (m *memoryCache) Set(_ context.Context, key string, v any) error {
	m.data[key] = v
	return nil
}

func (m *memoryCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
		m.invalidated = append(m.invalidated, k)
	}
	return nil
}

func TestNilFeedIsNoop(t *testing.T) {
	var f *Feed
	var dst []string
	assert.False(t, f.CachedList(context.Background(), ResourceUsers, &dst))
	f.StoreList(context.Background(), ResourceUsers, []string{"x"})
	f.Emit(context.Background(), ResourceUsers, ActionCreated, "1")
}

func TestEmitInvalidatesThenPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	cache := newMemoryCache()
	f := NewFeed(pub, cache)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return fixed }

	ctx := context.Background()
	f.StoreList(ctx, ResourceEventTypes, []string{"a", "b"})

	var got []string
	require.True(t, f.CachedList(ctx, ResourceEventTypes, &got))
	assert.Equal(t, []string{"a", "b"}, got)

	f.Emit(ctx, ResourceEventTypes, ActionDeleted, "t-1")

	assert.False(t, f.CachedList(ctx, ResourceEventTypes, &got))
	assert.Equal(t, []string{ResourceEventTypes}, cache.invalidated)
	require.Len(t, pub.changes, 1)
	assert.Equal(t, Change{Resource: ResourceEventTypes, Action: ActionDeleted, ID: "t-1", At: fixed}, pub.changes[0])
}

func TestEmitSwallowsPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	f := NewFeed(pub, nil)
	f.Emit(context.Background(), ResourceEvents, ActionCreated, "e-1")
	assert.Len(t, pub.changes, 1)
}

func TestCombineSkipsNilAndJoinsErrors(t *testing.T) {
	ok := &recordingPublisher{}
	bad := &recordingPublisher{err: errors.New("boom")}

	err := Combine(ok, nil, bad).Publish(context.Background(), Change{Resource: ResourceUsers, ID: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, ok.changes, 1)
	assert.Len(t, bad.changes, 1)

	assert.NoError(t, Combine().Publish(context.Background(), Change{}))
}

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestKafkaPublisherKeysByResourceAndID(t *testing.T) {
	w := &recordingWriter{}
	p := &kafkaPublisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), Change{Resource: ResourceEvents, Action: ActionUpdated, ID: "e-9"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "events:e-9", string(w.msgs[0].Key))
	require.Len(t, w.msgs[0].Headers, 1)
	assert.Equal(t, "updated", string(w.msgs[0].Headers[0].Value))
	assert.Contains(t, string(w.msgs[0].Value), `"resource":"events"`)
}
