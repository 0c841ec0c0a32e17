package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Empty(t, store.Keys())
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestNewConfigStoreFrom_CopiesValues(t *testing.T) {
	seed := map[string]any{"search.top_k": 5}
	store := NewConfigStoreFrom(seed)

	seed["search.top_k"] = 9
	assert.Equal(t, 5, store.GetInt("search.top_k"))
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("corpus.dir", "./data"))
	require.NoError(t, store.Set("corpus.dir", "/srv/cases"))

	val, ok := store.Get("corpus.dir")
	assert.True(t, ok)
	assert.Equal(t, "/srv/cases", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"str":     "value",
		"int":     3,
		"int64":   int64(4),
		"float":   0.7,
		"float32": float32(0.5),
		"bool":    true,
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("str"), "value"},
		{"string wrong type", store.GetString("int"), ""},
		{"int", store.GetInt("int"), 3},
		{"int from int64", store.GetInt("int64"), 4},
		{"int from float", store.GetInt("float"), 0},
		{"int wrong type", store.GetInt("str"), 0},
		{"float", store.GetFloat("float"), 0.7},
		{"float from float32", store.GetFloat("float32"), 0.5},
		{"float from int", store.GetFloat("int"), 3.0},
		{"float from int64", store.GetFloat("int64"), 4.0},
		{"float wrong type", store.GetFloat("bool"), 0.0},
		{"bool", store.GetBool("bool"), true},
		{"bool wrong type", store.GetBool("str"), false},
		{"missing bool", store.GetBool("missing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_Keys_Sorted(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("search.top_k", 3))
	require.NoError(t, store.Set("corpus.dir", "./data"))
	require.NoError(t, store.Set("llm.model", "gpt-3.5-turbo"))

	assert.Equal(t, []string{"corpus.dir", "llm.model", "search.top_k"}, store.Keys())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("search.top_k", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("search.top_k")
			_ = store.Keys()
		}()
	}
	wg.Wait()

	_, ok := store.Get("search.top_k")
	assert.True(t, ok)
}

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = NewConfigStore()
}
