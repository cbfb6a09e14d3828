// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package registry defines the application registry interface and
// its data model.
//
// An application registry holds a set of application records, each
// identified by a positive integer id.  Records carry four string
// fields; the set of acceptable company names is fixed when the
// registry is built, normally from the distinct companies named in
// the seed dataset.
//
// There are several implementations of Store.  The "memory" package
// keeps everything in process memory and is the default.  "postgres"
// keeps records in a PostgreSQL table that is reloaded on startup.
// "cache" is an LRU wrapper around any other store, and "restclient"
// talks to a remote "restserver".  All of them satisfy the same
// contract, and the "registrytest" package checks that.
//
// Validation is not part of Store.  Callers that accept untrusted
// input, like the REST server, run it through a Schema first and only
// hand validated records to the store.
package registry

import (
	"context"
	"sort"
)

// MaxFieldLength is the longest permitted value, in characters, for
// any of the string fields of an Application.
const MaxFieldLength = 100

// Application is a single record in the registry.
type Application struct {
	// ID is the unique identifier of this record.  It is assigned
	// by the Store on creation; any ID passed to Create is ignored.
	ID int `json:"id"`

	// AppName is the human-visible name of the application.
	AppName string `json:"app_name"`

	// AppVersion is a free-form version string.
	AppVersion string `json:"app_version"`

	// Logo is the file name of the application's logo.
	Logo string `json:"logo"`

	// CompanyName is the publisher of the application.  It must
	// be one of the companies known to the Schema.
	CompanyName string `json:"company_name"`
}

// Store is the interface to an application record store.  All of the
// implementations are safe for concurrent use.
type Store interface {
	// List returns all of the records in the store, in ascending
	// order of ID.
	List(ctx context.Context) ([]Application, error)

	// Count returns the number of records in the store.
	Count(ctx context.Context) (int, error)

	// Create adds a new record to the store.  The store picks the
	// new record's ID, and returns the record as stored.
	Create(ctx context.Context, app Application) (Application, error)

	// Get retrieves a single record by ID.  If there is no such
	// record, returns ErrNoSuchApplication.
	Get(ctx context.Context, id int) (Application, error)

	// Update replaces the record with the given ID.  app.ID is
	// ignored and the stored record always keeps id.  If there is
	// no such record, returns ErrNoSuchApplication and does not
	// create one.
	Update(ctx context.Context, id int, app Application) (Application, error)

	// Delete removes the record with the given ID.  If there is no
	// such record, returns ErrNoSuchApplication.
	Delete(ctx context.Context, id int) error
}

// SortByID sorts a slice of records in place in ascending ID order.
func SortByID(apps []Application) {
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].ID < apps[j].ID
	})
}
