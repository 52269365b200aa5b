package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/repolens/core"
)

func TestInMemoryStore_GetPut(t *testing.T) {
	store := NewInMemoryStore()

	_, ok := store.Get("repo-a", core.KindPatterns)
	assert.False(t, ok)

	store.Put("repo-a", core.KindPatterns, core.SuccessResult(core.KindPatterns, "insight", map[string]any{"n": 1}))

	got, ok := store.Get("repo-a", core.KindPatterns)
	assert.True(t, ok)
	assert.Equal(t, "insight", got.Insight)
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryStore_CloneIsolation(t *testing.T) {
	store := NewInMemoryStore()
	res := core.SuccessResult(core.KindPatterns, "insight", map[string]any{"n": 1})
	store.Put("repo-a", core.KindPatterns, res)

	// Mutating the original after Put must not affect the stored entry.
	res.Data["n"] = 99

	got, _ := store.Get("repo-a", core.KindPatterns)
	assert.Equal(t, 1, got.Data["n"])

	// Mutating a returned clone must not affect subsequent reads.
	got.Data["n"] = 42
	again, _ := store.Get("repo-a", core.KindPatterns)
	assert.Equal(t, 1, again.Data["n"])
}

func TestInMemoryStore_KeyIsolation(t *testing.T) {
	store := NewInMemoryStore()
	store.Put("repo-a", core.KindPatterns, core.SuccessResult(core.KindPatterns, "a", nil))
	store.Put("repo-a", core.KindTimeline, core.SuccessResult(core.KindTimeline, "b", nil))
	store.Put("repo-b", core.KindPatterns, core.SuccessResult(core.KindPatterns, "c", nil))

	got, ok := store.Get("repo-b", core.KindPatterns)
	assert.True(t, ok)
	assert.Equal(t, "c", got.Insight)
	assert.Equal(t, 3, store.Len())
}

func TestInMemoryStore_Clear(t *testing.T) {
	store := NewInMemoryStore()
	store.Put("repo-a", core.KindPatterns, core.SuccessResult(core.KindPatterns, "a", nil))
	store.Put("repo-a", core.KindTimeline, core.SuccessResult(core.KindTimeline, "b", nil))
	store.Put("repo-b", core.KindPatterns, core.SuccessResult(core.KindPatterns, "c", nil))

	store.Clear("repo-a")
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get("repo-b", core.KindPatterns)
	assert.True(t, ok)

	store.Clear("")
	assert.Equal(t, 0, store.Len())
}
