// Package collection implements the server-synchronized entity collection
// used for products, customers and transactions. One generic controller
// replaces the per-entity copies the dashboard started with.
//
// Every mutation is confirm-then-apply: the in-memory list changes only
// after the server acknowledges, so the local state is always something the
// server has confirmed and no rollback path exists. Mutations on one
// controller serialize: the mutation lock is held across the round trip, so
// apply order equals issue order. Reads never block on the network.
package collection

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
)

// API is the slice of the gateway a controller needs.
type API interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Controller owns the in-memory, newest-first list of one entity kind E,
// created from input kind C, synchronized against a single endpoint path.
type Controller[E any, C any] struct {
	api  API
	path string
	id   func(E) int
	log  *logrus.Entry

	mut sync.Mutex // serializes mutations across their network round trip

	mu        sync.RWMutex // guards the fields below
	items     []E
	loading   bool
	loaded    bool
	lastErr   error
	listeners []func()
}

// New builds a controller for endpoint path. id extracts the server-assigned
// identity used for matching; it is the only way elements are ever matched.
func New[E any, C any](api API, path string, id func(E) int, log *logrus.Logger) *Controller[E, C] {
	return &Controller[E, C]{
		api:  api,
		path: path,
		id:   id,
		log:  log.WithField("collection", path),
	}
}

// List returns the current snapshot. The controller never mutates the
// returned slice in place; every successful apply installs a fresh slice.
// Callers may hold the snapshot across calls but must not modify it.
func (c *Controller[E, C]) List() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// Find resolves an element by id. The ok result makes absent ids an explicit
// case at the call site instead of an assumed-present access.
func (c *Controller[E, C]) Find(id int) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero E
	return zero, false
}

// Load performs the initial fetch. It runs at most once per controller:
// repeat calls and calls racing an in-flight load are no-ops. A failed load
// records the error and leaves the collection at its previous value; it is
// not retried (the caller reads Err instead of an error return, since
// nothing awaits the initial load).
func (c *Controller[E, C]) Load(ctx context.Context) {
	c.mu.Lock()
	if c.loaded || c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.lastErr = nil
	c.mu.Unlock()

	var fetched []E
	err := c.api.Do(ctx, http.MethodGet, c.path, nil, &fetched)

	c.mu.Lock()
	c.loading = false
	c.loaded = true
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.log.WithError(err).Warn("initial load failed")
		return
	}
	c.items = fetched
	c.mu.Unlock()
	c.notify()
}

// Add creates the entity remotely and, only on confirmation, prepends the
// server-canonical result (carrying the server-assigned id and any
// server-assigned fields) to the list.
func (c *Controller[E, C]) Add(ctx context.Context, input C) (E, error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	var created E
	if err := c.api.Do(ctx, http.MethodPost, c.path, input, &created); err != nil {
		c.recordErr(err)
		return created, err
	}

	c.mu.Lock()
	next := make([]E, 0, len(c.items)+1)
	next = append(next, created)
	next = append(next, c.items...)
	c.items = next
	c.lastErr = nil
	c.mu.Unlock()
	c.notify()
	return created, nil
}

// Update replaces the element matching entity's id with the server-returned
// value, preserving its position and everyone else's. An id the server
// confirmed but the local list no longer holds applies as a no-op.
func (c *Controller[E, C]) Update(ctx context.Context, entity E) (E, error) {
	c.mut.Lock()
	defer c.mut.Unlock()

	var updated E
	path := fmt.Sprintf("%s/%d", c.path, c.id(entity))
	if err := c.api.Do(ctx, http.MethodPut, path, entity, &updated); err != nil {
		c.recordErr(err)
		return updated, err
	}

	c.mu.Lock()
	next := make([]E, len(c.items))
	copy(next, c.items)
	for i, item := range next {
		if c.id(item) == c.id(updated) {
			next[i] = updated
			break
		}
	}
	c.items = next
	c.lastErr = nil
	c.mu.Unlock()
	c.notify()
	return updated, nil
}

// Delete removes the element by id once the server confirms.
func (c *Controller[E, C]) Delete(ctx context.Context, id int) error {
	c.mut.Lock()
	defer c.mut.Unlock()

	path := fmt.Sprintf("%s/%d", c.path, id)
	if err := c.api.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		c.recordErr(err)
		return err
	}

	c.mu.Lock()
	next := make([]E, 0, len(c.items))
	for _, item := range c.items {
		if c.id(item) != id {
			next = append(next, item)
		}
	}
	c.items = next
	c.lastErr = nil
	c.mu.Unlock()
	c.notify()
	return nil
}

// Loading reports whether the initial fetch is in flight.
func (c *Controller[E, C]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the last recorded load or mutation failure, nil after any
// subsequent success.
func (c *Controller[E, C]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// OnChange registers fn to run after every successful apply. Callbacks fire
// outside the controller locks; a consumer detached from its view simply
// ignores the call.
func (c *Controller[E, C]) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller[E, C]) recordErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.log.WithError(err).Warn("mutation rejected")
}

func (c *Controller[E, C]) notify() {
	c.mu.RLock()
	fns := make([]func(), len(c.listeners))
	copy(fns, c.listeners)
	c.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
