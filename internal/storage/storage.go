// Package storage defines the key-value text store the cart persists into,
// the Go counterpart of a browser's local storage: get, set, remove over
// plain text, one writer, no cross-process coordination.
package storage

import "context"

// KV is a process-local key-value text store.
//
// Get reports absence through its second return value rather than an error;
// errors are reserved for medium-level failures (the store itself being
// unreachable or rejecting the operation).
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
