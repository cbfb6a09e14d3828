// Copyright 2016-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cache provides ID-based caching of application records.
// The cache wraps some other registry.Store.  Fetching a single
// record by ID returns a cached copy if one is available; every
// other call passes through to the underlying store, updating the
// cache along the way.
//
// Caveats
//
// The cache only sees changes made through it.  If two processes
// share a PostgreSQL store and each wraps it in a cache, a record
// one of them updates may be served stale by the other until it is
// evicted.  List and Count always go to the underlying store, so
// they are never stale.
package cache

import (
	"context"

	"github.com/diffeo/go-appregistry/registry"
)

// DefaultSize is the cache capacity used when New is given a
// non-positive size.
const DefaultSize = 256

type cache struct {
	backend registry.Store
	apps    *lru
}

// New creates a new caching store, wrapping some other store.  The
// cache holds up to size records.
func New(backend registry.Store, size int) registry.Store {
	if size <= 0 {
		size = DefaultSize
	}
	return &cache{
		backend: backend,
		apps:    newLRU(size),
	}
}

func (c *cache) List(ctx context.Context) ([]registry.Application, error) {
	return c.backend.List(ctx)
}

func (c *cache) Count(ctx context.Context) (int, error) {
	return c.backend.Count(ctx)
}

func (c *cache) Create(ctx context.Context, app registry.Application) (registry.Application, error) {
	app, err := c.backend.Create(ctx, app)
	if err == nil {
		c.apps.Put(app)
	}
	return app, err
}

func (c *cache) Get(ctx context.Context, id int) (registry.Application, error) {
	return c.apps.Get(id, func(id int) (registry.Application, error) {
		return c.backend.Get(ctx, id)
	})
}

func (c *cache) Update(ctx context.Context, id int, app registry.Application) (registry.Application, error) {
	app, err := c.backend.Update(ctx, id, app)
	if err == nil {
		c.apps.Put(app)
	} else if registry.IsNotFound(err) {
		c.apps.Remove(id)
	}
	return app, err
}

func (c *cache) Delete(ctx context.Context, id int) error {
	err := c.backend.Delete(ctx, id)
	// Evict only after the backend is done, so a concurrent Get
	// cannot refill the entry from the old record; and evict on
	// any outcome, since on "not found" our copy is stale anyway
	c.apps.Remove(id)
	return err
}
