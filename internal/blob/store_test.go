package blob_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/lockbin/internal/blob"
	apperrors "github.com/allisson/lockbin/internal/errors"
)

func setupStores(t *testing.T) map[string]blob.Store {
	t.Helper()

	fileStore, err := blob.NewFileStore(t.TempDir())
	require.NoError(t, err)

	stores := map[string]blob.Store{
		"file":   fileStore,
		"memory": blob.NewMemoryStore(),
	}

	for _, store := range stores {
		s := store
		t.Cleanup(func() {
			_ = s.Close()
		})
	}

	return stores
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()

	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte{0x00, 0x01, 0xFF, 0xFE}

			err := store.Put(ctx, "secret-id", payload)
			require.NoError(t, err)

			data, err := store.Get(ctx, "secret-id")
			require.NoError(t, err)
			assert.Equal(t, payload, data)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()

	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "never-created")
			assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		})
	}
}

func TestStore_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()

	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.Put(ctx, "secret-id", []byte("ciphertext"))
			require.NoError(t, err)

			assert.NoError(t, store.Delete(ctx, "secret-id"))
			// Second delete on the same key is a no-op
			assert.NoError(t, store.Delete(ctx, "secret-id"))
			// Deleting a key that never existed is a no-op too
			assert.NoError(t, store.Delete(ctx, "never-created"))

			_, err = store.Get(ctx, "secret-id")
			assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		})
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()

	for name, store := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			keys, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)

			require.NoError(t, store.Put(ctx, "a", []byte("1")))
			require.NoError(t, store.Put(ctx, "b", []byte("2")))

			keys, err = store.List(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"a", "b"}, keys)
		})
	}
}
