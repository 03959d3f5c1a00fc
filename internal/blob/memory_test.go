package blob

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Remove(ctx, "k"))
	require.NoError(t, m.Remove(ctx, "k"))
	_, found, _ = m.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryUpdateAbortsOnError(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "k", "old"))

	boom := errors.New("boom")
	err := m.Update(ctx, "k", func(string, bool) (string, error) { return "new", boom })
	assert.ErrorIs(t, err, boom)

	v, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "old", v)
}

func TestMemoryUpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Update(ctx, "counter", func(cur string, found bool) (string, error) {
				n := 0
				if found {
					n, _ = strconv.Atoi(cur)
				}
				return strconv.Itoa(n + 1), nil
			})
		}()
	}
	wg.Wait()

	v, _, _ := m.Get(ctx, "counter")
	assert.Equal(t, "50", v)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "zander-store-cart:abc", CartKey("abc"))
	assert.Equal(t, "zander-store-favorites:abc", FavoritesKey("abc"))
}
