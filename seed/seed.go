// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package seed loads the initial application dataset.
//
// A seed dataset is a JSON array of objects with the same shape as a
// registry.Application.  The package embeds a default dataset of 1000
// records; Open can read an alternate one from disk.  The distinct
// company names in whatever seed the service starts with become the
// only acceptable values of company_name for the rest of the
// process's life.
package seed

import (
	"bytes"
	"context"
	_ "embed" // for the default dataset
	"fmt"
	"io"
	"path/filepath"

	"github.com/diffeo/go-appregistry/registry"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/ugorji/go/codec"
)

//go:embed MOCK_DATA.json
var mockData []byte

// ErrDuplicateID is returned from Load if the same record ID appears
// twice in a dataset.
type ErrDuplicateID struct {
	ID int
}

func (e ErrDuplicateID) Error() string {
	return fmt.Sprintf("duplicate application id %d in seed data", e.ID)
}

// ErrBadID is returned from Load if a record has a non-positive ID.
type ErrBadID struct {
	ID int
}

func (e ErrBadID) Error() string {
	return fmt.Sprintf("invalid application id %d in seed data", e.ID)
}

// ErrInvalidRecord is returned from Load if a record fails
// validation.  Err is the registry.ValidationErrors describing it.
type ErrInvalidRecord struct {
	ID  int
	Err error
}

func (e ErrInvalidRecord) Error() string {
	return fmt.Sprintf("application %d in seed data: %v", e.ID, e.Err)
}

// Default returns a fresh copy of the embedded seed dataset.
func Default() ([]registry.Application, error) {
	return Load(bytes.NewReader(mockData))
}

// Load reads a seed dataset.  The returned records are sorted by ID.
// Every record must have a unique positive ID and pass validation
// against the set of companies the dataset itself names.
func Load(r io.Reader) ([]registry.Application, error) {
	var apps []registry.Application
	json := &codec.JsonHandle{}
	decoder := codec.NewDecoder(r, json)
	if err := decoder.Decode(&apps); err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(apps))
	for _, app := range apps {
		if app.ID <= 0 {
			return nil, ErrBadID{ID: app.ID}
		}
		if _, dup := seen[app.ID]; dup {
			return nil, ErrDuplicateID{ID: app.ID}
		}
		seen[app.ID] = struct{}{}
	}
	registry.SortByID(apps)
	schema := registry.NewSchema(registry.CompaniesOf(apps))
	for _, app := range apps {
		if err := schema.Check(app); err != nil {
			return nil, ErrInvalidRecord{ID: app.ID, Err: err}
		}
	}
	return apps, nil
}

// Open reads a seed dataset from a file.  The file's directory is
// opened as a blob bucket and the file itself read as a key within
// it.  An empty path returns the default dataset.
func Open(ctx context.Context, path string) ([]registry.Application, error) {
	if path == "" {
		return Default()
	}
	bucket, err := fileblob.NewBucket(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	reader, err := bucket.NewReader(ctx, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	apps, err := Load(reader)
	if closeErr := reader.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}
	return apps, nil
}
