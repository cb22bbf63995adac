// Package metadata persists small named blobs (sealed session values) in the
// local SQLite database.
package metadata

import (
	"context"
)

// Repository stores opaque values by name. Get returns (nil, nil) for a
// missing name; Delete ignores names that are not present.
type Repository interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, value []byte) error
	Delete(ctx context.Context, names ...string) error
}
