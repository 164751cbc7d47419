package changefeed

import (
	"context"
	"log"
	"time"
)

// Feed couples the list cache with change publishing.
// A nil *Feed is valid and does nothing, which is what tests and cache-less runs use.
type Feed struct {
	pub   Publisher
	cache ListCache
	now   func() time.Time
}

func NewFeed(pub Publisher, cache ListCache) *Feed {
	return &Feed{pub: pub, cache: cache, now: time.Now}
}

// CachedList loads key from the cache into dst. Cache errors count as a miss.
func (f *Feed) CachedList(ctx context.Context, key string, dst any) bool {
	if f == nil || f.cache == nil {
		return false
	}
	hit, err := f.cache.Get(ctx, key, dst)
	if err != nil {
		log.Printf("⚠️ list cache read %s: %v", key, err)
		return false
	}
	return hit
}

func (f *Feed) StoreList(ctx context.Context, key string, v any) {
	if f == nil || f.cache == nil {
		return
	}
	if err := f.cache.Set(ctx, key, v); err != nil {
		log.Printf("⚠️ list cache write %s: %v", key, err)
	}
}

// Emit drops the cached listing of resource and publishes the change.
// Failures are logged only; the mutation that triggered them already succeeded.
func (f *Feed) Emit(ctx context.Context, resource, action, id string) {
	if f == nil {
		return
	}
	if f.cache != nil {
		if err := f.cache.Invalidate(ctx, resource); err != nil {
			log.Printf("⚠️ list cache invalidate %s: %v", resource, err)
		}
	}
	if f.pub == nil {
		return
	}
	ch := Change{Resource: resource, Action: action, ID: id, At: f.now().UTC()}
	if err := f.pub.Publish(ctx, ch); err != nil {
		log.Printf("⚠️ change publish %s/%s %s: %v", resource, action, id, err)
	}
}
