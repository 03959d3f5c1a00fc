// Package blob defines the string-keyed blob store the storefront ledgers persist into.
// Values are opaque strings (JSON documents in practice); there is no TTL and no schema versioning.
package blob

import (
	"context"
	"errors"
)

// ErrConflict is returned by Update when a backend gave up retrying a contended key.
var ErrConflict = errors.New("blob: update conflict")

// UpdateFunc receives the current value (found=false when the key is absent) and returns the value
// to store. Returning an error aborts the update without writing.
type UpdateFunc func(current string, found bool) (string, error)

type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Update performs an atomic read-modify-write of a single key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}
