// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package registrytest

import (
	"github.com/diffeo/go-appregistry/registry"
)

// Fintone is the first record of the default seed dataset.
var Fintone = registry.Application{
	ID:          1,
	AppName:     "Fintone",
	AppVersion:  "8.4",
	Logo:        "nisl.jpeg",
	CompanyName: "Littel-Collier",
}

// It is record 777 of the default seed dataset.
var It = registry.Application{
	ID:          777,
	AppName:     "It",
	AppVersion:  "0.9.7",
	Logo:        "dictumst.gif",
	CompanyName: "Donnelly, Hintz and Kuhn",
}

// Wootwa is a valid record that is not in the default seed dataset.
var Wootwa = registry.Application{
	AppName:     "Wootwa",
	AppVersion:  "1.0.1",
	Logo:        "noce.png",
	CompanyName: "Littel-Collier",
}

// SeedSize is the number of records in the default seed dataset.
const SeedSize = 1000

// MissingID is an ID that is never present in the default seed.
const MissingID = 1111111

// withID returns a copy of app with its ID changed.
func withID(app registry.Application, id int) registry.Application {
	app.ID = id
	return app
}

// CountIs asserts that the store holds exactly n records, both by
// Count and by the length of List.
func (s *Suite) CountIs(n int) {
	count, err := s.Store.Count(s.Ctx)
	if s.NoError(err) {
		s.Equal(n, count)
	}
	apps, err := s.Store.List(s.Ctx)
	if s.NoError(err) {
		s.Len(apps, n)
	}
}

// Missing asserts that id is not in the store.
func (s *Suite) Missing(id int) {
	_, err := s.Store.Get(s.Ctx, id)
	if s.Error(err) {
		s.True(registry.IsNotFound(err), "expected not-found, got %+v", err)
	}
}

// Has asserts that the store holds exactly app.
func (s *Suite) Has(app registry.Application) {
	got, err := s.Store.Get(s.Ctx, app.ID)
	if s.NoError(err) {
		s.Equal(app, got)
	}
}
