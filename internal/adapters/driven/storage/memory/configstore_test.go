package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{"search.top_k": 3}, map[string]any{"admin": true})
	assert.Equal(t, 3, store.GetInt("search.top_k"))
	assert.True(t, store.GetBool("admin"))
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))
	require.NoError(t, store.Set("llm.model", "gpt-4o"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "gpt-4o", val)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"str":     "value",
		"int":     7,
		"int64":   int64(8),
		"float":   2.5,
		"bool":    true,
		"wrong":   []string{"x"},
		"boolstr": "true",
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("str"), "value"},
		{"string wrong type", store.GetString("int"), ""},
		{"int", store.GetInt("int"), 7},
		{"int from int64", store.GetInt("int64"), 8},
		{"int from float", store.GetInt("float"), 2},
		{"int wrong type", store.GetInt("wrong"), 0},
		{"float", store.GetFloat("float"), 2.5},
		{"float from int", store.GetFloat("int"), 7.0},
		{"float from int64", store.GetFloat("int64"), 8.0},
		{"float missing", store.GetFloat("missing"), 0.0},
		{"bool", store.GetBool("bool"), true},
		{"bool from string", store.GetBool("boolstr"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_Keys_Sorted(t *testing.T) {
	store := NewConfigStore(map[string]any{"b": 1, "a": 2, "c": 3})
	assert.Equal(t, []string{"a", "b", "c"}, store.Keys())
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			_ = store.Set("key-"+string(rune('A'+id)), id)
		}(i)
		go func(id int) {
			defer wg.Done()
			_ = store.GetInt("key-" + string(rune('A'+id)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 50)
}
