package runtime

import (
	"fmt"
	"sync"
)

// Factory constructs one state object instance. It runs no helpers:
// Setup and Teardown helpers are run by the Engine, not the registry.
// The registry invokes a Factory at most once per (scope, key).
type Factory func() (interface{}, error)

// Registry owns the lifecycle of every state object instance for one
// benchmark run and is the only way the runner touches them: its whole
// public surface is GetOrInit(scope, key, factory).
//
// Benchmark-scoped state gets exactly one instance for the whole run.
// Group-scoped state gets one instance per group key, created lazily the
// first time a thread in that group asks for it. Thread-scoped state
// needs no cross-goroutine synchronization in principle — only the owning
// goroutine ever requests its own key — but goes through the same guarded
// path so callers have one lifecycle API regardless of scope.
type Registry struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	once     sync.Once
	instance interface{}
	err      error
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]*slot)}
}

// GetOrInit returns the instance for (scopeKey, key), constructing it
// with factory on first request and caching it for every subsequent
// request with the same composite key. Concurrent callers racing on the
// same key block on the same sync.Once and observe the same instance and
// error — construction races always resolve to exactly one instance.
func (r *Registry) GetOrInit(scopeKey, key string, factory Factory) (interface{}, error) {
	if err := checkFactory(factory); err != nil {
		return nil, err
	}

	compositeKey := scopeKey + "\x00" + key

	r.mu.Lock()
	s, ok := r.slots[compositeKey]
	if !ok {
		s = &slot{}
		r.slots[compositeKey] = s
	}
	r.mu.Unlock()

	s.once.Do(func() {
		s.instance, s.err = factory()
	})

	return s.instance, s.err
}

// checkFactory rejects a nil factory, a programmer error rather than an
// expected runtime condition.
func checkFactory(f Factory) error {
	if f == nil {
		return fmt.Errorf("runtime: nil factory passed to GetOrInit")
	}
	return nil
}
