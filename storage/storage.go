// Package storage keeps avatar bytes. Stores are addressed by opaque keys chosen by the caller;
// they never list or scan, lookups are always by exact key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrBlobNotFound is returned by Get when no blob exists under the key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists whole blobs by key.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// validKey rejects keys that could escape a directory or collide with path syntax.
func validKey(key string) error {
	if key == "" || key != filepath.Base(key) || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid blob key %q", key)
	}
	return nil
}
