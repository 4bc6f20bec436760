// Package blob provides ciphertext storage on a medium external to process
// memory, keyed by secret id. Payloads are opaque to the server: they are
// written, read once, and deleted, never interpreted.
package blob

import (
	"context"
	"io"
	"os"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/lockbin/internal/errors"
)

// Store defines the minimal contract for ciphertext persistence.
// Delete must be safe to call on a non-existent key.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// bucketStore implements Store on top of a gocloud.dev blob bucket.
type bucketStore struct {
	bucket *blob.Bucket
}

// NewFileStore opens a filesystem-backed store rooted at dir.
// The directory is created if it does not exist.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err.Error())
	}

	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err.Error())
	}

	return &bucketStore{bucket: bucket}, nil
}

// NewMemoryStore opens an in-memory store, used in tests.
func NewMemoryStore() Store {
	return &bucketStore{bucket: memblob.OpenBucket(nil)}
}

// Put writes data under key, overwriting any existing object.
func (s *bucketStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err.Error())
	}
	return nil
}

// Get reads the full object stored under key.
// Returns ErrNotFound when the key does not exist.
func (s *bucketStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "blob not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err.Error())
	}
	return data, nil
}

// Delete removes the object stored under key.
// Deleting a non-existent key is a no-op.
func (s *bucketStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrStorage, err.Error())
	}
	return nil
}

// List returns every key currently present in the store.
func (s *bucketStore) List(ctx context.Context) ([]string, error) {
	var keys []string

	iter := s.bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, err.Error())
		}
		keys = append(keys, obj.Key)
	}

	return keys, nil
}

// Close releases the underlying bucket resources.
func (s *bucketStore) Close() error {
	return s.bucket.Close()
}
