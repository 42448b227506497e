package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AustinOrphan/docview"
)

// Compile-time interface verification.
var _ docview.BlobStore = (*BlobStore)(nil)

// BlobStore implements docview.BlobStore using SQLite. An optional byte
// budget turns writes that would exceed it into quota errors, which the
// caller resolves by evicting old entries.
type BlobStore struct {
	db       *DB
	maxBytes int64
	now      func() time.Time
}

// BlobStoreOption configures a BlobStore.
type BlobStoreOption func(*BlobStore)

// WithMaxBytes bounds the total payload size the store accepts.
// Zero means unbounded.
func WithMaxBytes(n int64) BlobStoreOption {
	return func(s *BlobStore) {
		s.maxBytes = n
	}
}

// WithNow overrides the clock used for write timestamps. Intended for tests.
func WithNow(now func() time.Time) BlobStoreOption {
	return func(s *BlobStore) {
		s.now = now
	}
}

// NewBlobStore creates a new BlobStore.
func NewBlobStore(db *DB, opts ...BlobStoreOption) *BlobStore {
	s := &BlobStore{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves the payload stored under key.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM blobs WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docview.Errorf(docview.ENOTFOUND, "no entry for key %q", key)
	}
	if err != nil {
		return nil, docview.WrapErrorf(err, docview.EINTERNAL, "reading key %q", key)
	}
	return data, nil
}

// Set stores the payload under key, replacing any existing entry. When a
// byte budget is configured and the write would exceed it, Set returns
// docview.ErrQuotaExceeded without modifying the store.
func (s *BlobStore) Set(ctx context.Context, key string, value []byte) error {
	if s.maxBytes > 0 {
		used, err := s.usedBytesExcluding(ctx, key)
		if err != nil {
			return err
		}
		if used+int64(len(value)) > s.maxBytes {
			return fmt.Errorf("storing %q (%d bytes): %w", key, len(value), docview.ErrQuotaExceeded)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, data, byte_size, written_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			byte_size = excluded.byte_size,
			written_at = excluded.written_at
	`, key, value, len(value), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return docview.WrapErrorf(err, docview.EINTERNAL, "writing key %q", key)
	}
	return nil
}

// Delete removes the entry under key. Deleting a missing key is not an error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key)
	if err != nil {
		return docview.WrapErrorf(err, docview.EINTERNAL, "deleting key %q", key)
	}
	return nil
}

// Keys returns all stored keys ordered oldest write first, so callers can
// evict in write order when reclaiming space.
func (s *BlobStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM blobs ORDER BY written_at ASC, rowid ASC")
	if err != nil {
		return nil, docview.WrapErrorf(err, docview.EINTERNAL, "listing keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, docview.WrapErrorf(err, docview.EINTERNAL, "scanning key")
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// usedBytesExcluding sums stored payload sizes, ignoring the entry under
// key since an upsert replaces it.
func (s *BlobStore) usedBytesExcluding(ctx context.Context, key string) (int64, error) {
	var used int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(byte_size), 0) FROM blobs WHERE key != ?", key).Scan(&used)
	if err != nil {
		return 0, docview.WrapErrorf(err, docview.EINTERNAL, "computing used bytes")
	}
	return used, nil
}
