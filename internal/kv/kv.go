// Package kv defines the durable key-value port the storefront core persists
// through. Values are JSON documents; keys are plain strings. The browser
// local-storage semantics of the original client map onto this port so a
// server-side store can substitute transparently.
package kv

import "context"

// Store is the persistence adapter contract: get/set/remove on string keys.
type Store interface {
	// Get returns the stored value and true, or ok=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Namespaced returns a view of store with every key prefixed by ns and a
// slash. Per-owner cart state is isolated this way.
func Namespaced(store Store, ns string) Store {
	if ns == "" {
		return store
	}
	return &nsStore{inner: store, prefix: ns + "/"}
}

type nsStore struct {
	inner  Store
	prefix string
}

func (s *nsStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *nsStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *nsStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}
