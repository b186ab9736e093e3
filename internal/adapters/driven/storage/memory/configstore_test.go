package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("notes.miss_policy", "skip"))
	require.NoError(t, store.Set("notes.miss_policy", "fail"))

	val, ok := store.Get("notes.miss_policy")
	assert.True(t, ok)
	assert.Equal(t, "fail", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_SeedIsCopied(t *testing.T) {
	seed := map[string]any{"audit.enabled": true}
	store := NewConfigStoreWith(seed)

	seed["audit.enabled"] = false
	assert.True(t, store.GetBool("audit.enabled"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{
		"string":     "value",
		"int":        42,
		"int64":      int64(1 << 40),
		"float":      float64(60),
		"fraction":   2.5,
		"bool":       true,
		"strings":    []string{".pptx", ".pptm"},
		"any_slice":  []any{"/a", 7, "/b"},
		"wrong_type": struct{}{},
	})

	assert.Equal(t, "value", store.GetString("string"))
	assert.Empty(t, store.GetString("int"))
	assert.Empty(t, store.GetString("missing"))

	assert.Equal(t, int64(42), store.GetInt64("int"))
	assert.Equal(t, int64(1<<40), store.GetInt64("int64"))
	assert.Equal(t, int64(60), store.GetInt64("float"))
	assert.Zero(t, store.GetInt64("fraction"))
	assert.Zero(t, store.GetInt64("string"))
	assert.Zero(t, store.GetInt64("missing"))

	assert.True(t, store.GetBool("bool"))
	assert.False(t, store.GetBool("string"))
	assert.False(t, store.GetBool("missing"))

	assert.Equal(t, []string{".pptx", ".pptm"}, store.GetStringSlice("strings"))
	assert.Equal(t, []string{"/a", "/b"}, store.GetStringSlice("any_slice"))
	assert.Nil(t, store.GetStringSlice("wrong_type"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_StringSliceIsCopied(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{"dirs": []string{"/a"}})

	got := store.GetStringSlice("dirs")
	got[0] = "/changed"
	assert.Equal(t, []string{"/a"}, store.GetStringSlice("dirs"))
}

func TestConfigStore_LoadAndPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Load())
	assert.Empty(t, store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key%d", i%5), int64(i))
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt64(fmt.Sprintf("key%d", i%5))
		}()
	}
	wg.Wait()

	for i := range 5 {
		_, ok := store.Get(fmt.Sprintf("key%d", i))
		assert.True(t, ok)
	}
}
