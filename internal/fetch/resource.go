// Package fetch provides keyed, tri-state data hooks with stale-response protection.
package fetch

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Loader fetches the value for a key.
type Loader[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Snapshot is an immutable view of a Resource.
type Snapshot[K comparable, T any] struct {
	Key     K
	Data    T
	Err     error
	HasKey  bool
	HasData bool
	Loading bool
	// Generation changes every time loaded data replaces the value.
	Generation uint64
}

// Resource holds the latest value loaded for its current key. A load is
// issued only when the key changes or on Refetch. A response is applied only
// when it belongs to the newest request for the key and the key is still current.
type Resource[K comparable, T any] struct {
	load   Loader[K, T]
	logger *zap.Logger
	issued map[K]uint64

	key        K
	data       T
	err        error
	hasKey     bool
	hasData    bool
	loading    bool
	generation uint64
	mu         sync.Mutex
}

// New creates a Resource backed by the loader.
func New[K comparable, T any](load Loader[K, T], logger *zap.Logger) *Resource[K, T] {
	return &Resource[K, T]{
		load:   load,
		logger: logger,
		issued: make(map[K]uint64),
	}
}

// Use points the resource at key. It loads only if key differs from the
// current key, and returns the resulting snapshot.
func (r *Resource[K, T]) Use(ctx context.Context, key K) Snapshot[K, T] {
	r.mu.Lock()
	if r.hasKey && r.key == key {
		snap := r.snapshotLocked()
		r.mu.Unlock()
		return snap
	}

	// Data of the previous key must never show under the new one
	var zero T
	r.key = key
	r.hasKey = true
	r.data = zero
	r.hasData = false
	r.err = nil
	r.mu.Unlock()

	return r.fetch(ctx, key)
}

// Refetch reloads the current key. Without a key it returns the empty snapshot.
func (r *Resource[K, T]) Refetch(ctx context.Context) Snapshot[K, T] {
	r.mu.Lock()
	if !r.hasKey {
		snap := r.snapshotLocked()
		r.mu.Unlock()
		return snap
	}
	key := r.key
	r.mu.Unlock()

	return r.fetch(ctx, key)
}

// Snapshot returns the current state.
func (r *Resource[K, T]) Snapshot() Snapshot[K, T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// SetData replaces the value without a network round trip.
func (r *Resource[K, T]) SetData(data T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = data
	r.hasData = true
}

// Mutate replaces the value with fn(value) and returns the generation it was
// applied at. It reports false when there is no value. fn must not modify its
// argument in place.
func (r *Resource[K, T]) Mutate(fn func(T) T) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasData {
		return r.generation, false
	}
	r.data = fn(r.data)
	return r.generation, true
}

// MutateAt is Mutate that only applies while the generation is still gen.
func (r *Resource[K, T]) MutateAt(gen uint64, fn func(T) T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasData || r.generation != gen {
		return false
	}
	r.data = fn(r.data)
	return true
}

func (r *Resource[K, T]) fetch(ctx context.Context, key K) Snapshot[K, T] {
	r.mu.Lock()
	r.issued[key]++
	tag := r.issued[key]
	r.loading = true
	r.mu.Unlock()

	data, err := r.load(ctx, key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasKey || r.key != key || r.issued[key] != tag {
		r.logger.Debug("Discarding stale response",
			zap.Any("key", key),
			zap.Uint64("tag", tag),
			zap.Uint64("latest", r.issued[key]))
		return r.snapshotLocked()
	}

	r.loading = false

	if err != nil {
		// Last good value for this key stays visible next to the error
		r.err = err
		return r.snapshotLocked()
	}

	r.data = data
	r.hasData = true
	r.err = nil
	r.generation++

	return r.snapshotLocked()
}

func (r *Resource[K, T]) snapshotLocked() Snapshot[K, T] {
	return Snapshot[K, T]{
		Key:        r.key,
		Data:       r.data,
		Err:        r.err,
		HasKey:     r.hasKey,
		HasData:    r.hasData,
		Loading:    r.loading,
		Generation: r.generation,
	}
}
