package mock

import (
	"context"

	"github.com/AustinOrphan/docview"
)

var _ docview.BlobStore = (*BlobStore)(nil)

// BlobStore is a mock implementation of docview.BlobStore.
type BlobStore struct {
	GetFn    func(ctx context.Context, key string) ([]byte, error)
	SetFn    func(ctx context.Context, key string, value []byte) error
	DeleteFn func(ctx context.Context, key string) error
	KeysFn   func(ctx context.Context) ([]string, error)
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.GetFn(ctx, key)
}

func (s *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetFn(ctx, key, value)
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	return s.DeleteFn(ctx, key)
}

func (s *BlobStore) Keys(ctx context.Context) ([]string, error) {
	return s.KeysFn(ctx)
}
