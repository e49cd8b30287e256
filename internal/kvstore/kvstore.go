// Package kvstore provides the key-value adapter the demo data lives behind.
// The browser demo keeps everything in localStorage; the service keeps the
// same key layout but lets the backend be swapped (in-memory for tests and
// standalone runs, Redis or Mongo when the demo environment has them).
package kvstore

import "context"

// Store is the minimal contract every backend satisfies. Get reports absence
// via the bool rather than an error; an error means the backend itself failed.
// No call spans more than one key, so there is no transactionality across keys.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
