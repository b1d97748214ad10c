package form

import (
	"sync"
	"time"
)

const (
	// DefaultRegistryTTL is how long an untouched form instance is kept.
	DefaultRegistryTTL = 30 * time.Minute
	// DefaultRegistryLimit bounds the number of live form instances.
	DefaultRegistryLimit = 10000
)

// Registry keeps one Controller per rendered form instance, keyed by the
// token embedded in the page, so concurrent requests for the same form share
// one in-flight guard.
type Registry struct {
	factory func() *Controller
	ttl     time.Duration
	limit   int
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	ctrl *Controller
	seen time.Time
}

// NewRegistry creates a registry whose controllers are built by factory.
// Non-positive ttl and limit select the defaults.
func NewRegistry(factory func() *Controller, ttl time.Duration, limit int) *Registry {
	if ttl <= 0 {
		ttl = DefaultRegistryTTL
	}
	if limit <= 0 {
		limit = DefaultRegistryLimit
	}
	return &Registry{
		factory: factory,
		ttl:     ttl,
		limit:   limit,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// Get returns the controller for key, creating it on first use.
func (r *Registry) Get(key string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)
	e, ok := r.entries[key]
	if !ok {
		if len(r.entries) >= r.limit {
			r.evictOldestLocked()
		}
		e = &registryEntry{ctrl: r.factory()}
		r.entries[key] = e
	}
	e.seen = now
	return e.ctrl
}

// Detached returns a new controller that is not registered under any key,
// for requests that carry no form token.
func (r *Registry) Detached() *Controller {
	return r.factory()
}

// Release drops the controller for key unless it is submitting.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok && !e.ctrl.Busy() {
		delete(r.entries, key)
	}
}

// Len returns the number of live form instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// evictOldestLocked drops the least recently used idle entry. Submitting
// entries are never evicted, so the limit can be exceeded while they run.
func (r *Registry) evictOldestLocked() {
	var (
		oldest string
		seen   time.Time
		found  bool
	)
	for key, e := range r.entries {
		if e.ctrl.Busy() {
			continue
		}
		if !found || e.seen.Before(seen) {
			oldest, seen, found = key, e.seen, true
		}
	}
	if found {
		delete(r.entries, oldest)
	}
}

func (r *Registry) sweepLocked(now time.Time) {
	for key, e := range r.entries {
		if now.Sub(e.seen) > r.ttl && !e.ctrl.Busy() {
			delete(r.entries, key)
		}
	}
}
