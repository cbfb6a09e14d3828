// Copyright 2015-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct a registry
// store based on command-line flags.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diffeo/go-appregistry/cache"
	"github.com/diffeo/go-appregistry/memory"
	"github.com/diffeo/go-appregistry/postgres"
	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/restclient"
)

// Backend describes user-visible parameters to store application
// records.  This implements the flag.Value interface, and so a
// typical use is
//
//     func main() {
//         backend := backend.Backend{"memory", ""}
//         flag.Var(&backend, "backend", "impl:address of record storage")
//         flag.Parse()
//         store, err := backend.Store(ctx, apps, backend.Options{})
//     }
type Backend struct {
	// Implementation holds the name of the implementation; for
	// instance, "memory".
	Implementation string

	// Address holds some backend-specific address, such as a
	// database connect string.
	Address string
}

// Options holds settings that apply across backends.
type Options struct {
	// IDPolicy selects ID assignment for the memory backend.
	IDPolicy memory.IDPolicy

	// CacheSize, if positive, wraps the store in an LRU cache
	// holding this many records.
	CacheSize int

	// Attach, if true, uses the records already in a postgres
	// database rather than replacing them.
	Attach bool
}

var implementations = []string{"memory", "postgres", "rest"}

// Store creates a new registry.Store holding apps.  This generally
// should be only called once.  If the backend has in-process state,
// such as a database connection pool or an in-memory store, calling
// this multiple times will create multiple copies of that state.
//
// The "memory" and "postgres" backends start out holding exactly
// apps; for "postgres" this replaces whatever the database table held
// before, unless opts.Attach is set.  The "rest" backend talks to another server, which owns its
// own records, so apps is ignored.
func (b *Backend) Store(ctx context.Context, apps []registry.Application, opts Options) (registry.Store, error) {
	var (
		store registry.Store
		err   error
	)
	switch b.Implementation {
	case "memory":
		store = memory.New(apps, memory.WithIDPolicy(opts.IDPolicy))
	case "postgres":
		var pg *postgres.Store
		pg, err = postgres.New(b.Address)
		if err == nil && !opts.Attach {
			err = pg.Reset(ctx, apps)
			if err != nil {
				_ = pg.Close()
			}
		}
		store = pg
	case "rest":
		store, err = restclient.New(b.Address)
	default:
		err = fmt.Errorf("unknown backend %q", b.Implementation)
	}
	if err != nil {
		return nil, err
	}
	if opts.CacheSize > 0 {
		store = cache.New(store, opts.CacheSize)
	}
	return store, nil
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where
// address can be any string.  Set checks to see if the provided
// implementation is any of the known implementations, and returns an
// appropriate error if not.
//
// This is part of the flag.Value interface.  Note that neither Set
// nor String attempts to validate the b.Address part of the string or
// attempts to actually make a connection.
func (b *Backend) Set(param string) error {
	if param == "" {
		return errors.New("must specify a backend type")
	}
	parts := strings.SplitN(param, ":", 2)
	impl, address := parts[0], ""
	if len(parts) == 2 {
		address = parts[1]
	}
	known := false
	for _, name := range implementations {
		if impl == name {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown backend %q (want one of %s)",
			impl, strings.Join(implementations, ", "))
	}
	b.Implementation = impl
	b.Address = address
	return nil
}
