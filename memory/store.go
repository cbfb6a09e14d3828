// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// registry.Store.  There is no persistence on this store, nor is
// there any automatic sharing.  The entire store is behind a single
// global semaphore to protect against concurrent updates; in some
// cases this can limit performance in the name of correctness.
//
// This is the default store for the application registry service,
// and is also a simple reference implementation that can be used for
// in-process testing of higher-level components.
package memory

import (
	"context"
	"sync"

	"github.com/diffeo/go-appregistry/registry"
)

// Option customizes a store created by New.
type Option func(*memStore)

// WithIDPolicy selects how new record IDs are chosen.  The default is
// IDSequence.
func WithIDPolicy(policy IDPolicy) Option {
	return func(s *memStore) {
		s.policy = policy
	}
}

// New creates a new registry.Store that operates purely in memory,
// initially holding a copy of seed.  seed is assumed to have unique
// IDs, as seed.Load guarantees.
func New(seed []registry.Application, opts ...Option) registry.Store {
	s := &memStore{
		apps:   make(map[int]registry.Application, len(seed)),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, app := range seed {
		s.apps[app.ID] = app
		if app.ID >= s.nextID {
			s.nextID = app.ID + 1
		}
	}
	return s
}

type memStore struct {
	apps   map[int]registry.Application
	nextID int
	policy IDPolicy
	sem    sync.Mutex
}

// do runs f while holding the store lock.  Pair reads and writes
// inside a single call to keep them atomic.
func (s *memStore) do(f func() error) error {
	s.sem.Lock()
	defer s.sem.Unlock()
	return f()
}

// assignID picks the ID for a new record.  Must be called under the
// lock.
func (s *memStore) assignID() int {
	switch s.policy {
	case IDCount:
		return len(s.apps) + 1
	default:
		id := s.nextID
		s.nextID++
		return id
	}
}

func (s *memStore) List(ctx context.Context) (apps []registry.Application, err error) {
	err = s.do(func() error {
		apps = make([]registry.Application, 0, len(s.apps))
		for _, app := range s.apps {
			apps = append(apps, app)
		}
		return nil
	})
	registry.SortByID(apps)
	return
}

func (s *memStore) Count(ctx context.Context) (count int, err error) {
	err = s.do(func() error {
		count = len(s.apps)
		return nil
	})
	return
}

func (s *memStore) Create(ctx context.Context, app registry.Application) (registry.Application, error) {
	err := s.do(func() error {
		app.ID = s.assignID()
		s.apps[app.ID] = app
		return nil
	})
	return app, err
}

func (s *memStore) Get(ctx context.Context, id int) (app registry.Application, err error) {
	err = s.do(func() error {
		var present bool
		app, present = s.apps[id]
		if !present {
			return registry.ErrNoSuchApplication{ID: id}
		}
		return nil
	})
	return
}

func (s *memStore) Update(ctx context.Context, id int, app registry.Application) (registry.Application, error) {
	app.ID = id
	err := s.do(func() error {
		if _, present := s.apps[id]; !present {
			return registry.ErrNoSuchApplication{ID: id}
		}
		s.apps[id] = app
		return nil
	})
	if err != nil {
		return registry.Application{}, err
	}
	return app, nil
}

func (s *memStore) Delete(ctx context.Context, id int) error {
	return s.do(func() error {
		if _, present := s.apps[id]; !present {
			return registry.ErrNoSuchApplication{ID: id}
		}
		delete(s.apps, id)
		return nil
	})
}
