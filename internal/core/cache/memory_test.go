package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droe-core/droe-view/internal/core/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func event(id, eventType string) model.TimelineEvent {
	return model.TimelineEvent{ID: model.ID(id), Type: eventType}
}

func TestMemoryCacheSetAndGet(t *testing.T) {
	mc := NewMemoryCache(0)

	_, ok := mc.Get(event("1", "event"))
	assert.False(t, ok)

	mc.Set(event("1", "event"), model.EventDetail{Title: "Moon"})
	detail, ok := mc.Get(event("1", "event"))
	require.True(t, ok)
	assert.Equal(t, "Moon", detail.Title)

	// Same id, different type is a different record.
	_, ok = mc.Get(event("1", "memory"))
	assert.False(t, ok)

	hits, misses := mc.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
}

func TestMemoryCacheEvictsLeastRecentlyAccessed(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	mc := NewMemoryCache(2, WithClock(clock.Now))

	mc.Set(event("1", "event"), model.EventDetail{Title: "one"})
	clock.Advance(time.Second)
	mc.Set(event("2", "event"), model.EventDetail{Title: "two"})
	clock.Advance(time.Second)

	_, ok := mc.Get(event("1", "event"))
	require.True(t, ok)
	clock.Advance(time.Second)

	mc.Set(event("3", "event"), model.EventDetail{Title: "three"})
	assert.Equal(t, 2, mc.Len())

	_, ok = mc.Get(event("2", "event"))
	assert.False(t, ok, "entry 2 was accessed least recently")
	_, ok = mc.Get(event("1", "event"))
	assert.True(t, ok)
	_, ok = mc.Get(event("3", "event"))
	assert.True(t, ok)
}

func TestMemoryCacheOverwriteDoesNotEvict(t *testing.T) {
	mc := NewMemoryCache(1)
	mc.Set(event("1", "event"), model.EventDetail{Title: "old"})
	mc.Set(event("1", "event"), model.EventDetail{Title: "new"})

	detail, ok := mc.Get(event("1", "event"))
	require.True(t, ok)
	assert.Equal(t, "new", detail.Title)
	assert.Equal(t, 1, mc.Len())
}

func TestMemoryCacheTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	mc := NewMemoryCache(4, WithTTL(time.Minute), WithClock(clock.Now))

	mc.Set(event("1", "event"), model.EventDetail{Title: "Moon"})
	clock.Advance(30 * time.Second)
	_, ok := mc.Get(event("1", "event"))
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = mc.Get(event("1", "event"))
	assert.False(t, ok)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheClear(t *testing.T) {
	mc := NewMemoryCache(4)
	mc.Set(event("1", "event"), model.EventDetail{})
	mc.Get(event("1", "event"))
	mc.Clear()

	assert.Equal(t, 0, mc.Len())
	hits, misses := mc.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
