package db

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	exists, err := store.HasPriorVersion(ctx, "org", "offering")
	require.NoError(t, err)
	assert.False(t, exists)

	v := NewOfferingVersion("org", "offering", "1.0", false, []byte("doc"))
	require.NoError(t, store.RecordVersion(ctx, v))

	exists, err = store.HasPriorVersion(ctx, "ORG", "Offering")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.HasPriorVersion(ctx, "org", "other")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := NewOfferingVersion("org", "offering", "1.0", false, []byte("doc"))
	assert.ErrorIs(t, store.RecordVersion(ctx, dup), ErrVersionExists)

	require.NoError(t, store.RecordVersion(ctx, NewOfferingVersion("org", "offering", "2.0", false, []byte("doc2"))))
	versions := store.Versions("org", "offering")
	require.Len(t, versions, 2)
	assert.Equal(t, "1.0", versions[0].Version)
	assert.Equal(t, "2.0", versions[1].Version)
}

func TestMemoryStoreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore()
	_, err := store.HasPriorVersion(ctx, "org", "offering")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.RecordVersion(ctx, OfferingVersion{}), context.Canceled)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := NewOfferingVersion("org", "offering", string(rune('a'+i)), false, nil)
			assert.NoError(t, store.RecordVersion(ctx, v))
			_, err := store.HasPriorVersion(ctx, "org", "offering")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Len(t, store.Versions("org", "offering"), 16)
}

func TestNewOfferingVersion(t *testing.T) {
	a := NewOfferingVersion("org", "offering", "1.0", true, []byte("doc"))
	b := NewOfferingVersion("org", "offering", "1.0", true, []byte("doc"))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Hash, b.Hash)
	assert.Len(t, a.Hash, 64)
	assert.True(t, a.Open)
	assert.False(t, a.RecordedAt.IsZero())
}
