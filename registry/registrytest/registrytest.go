// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package registrytest provides generic functional tests for the
// registry.Store interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/diffeo/go-appregistry/registry"
//             "github.com/diffeo/go-appregistry/registry/registrytest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     // Suite is the per-backend generic test suite.
//     type Suite struct{
//             registrytest.Suite
//     }
//
//     // SetupTest creates a fresh store for every test.
//     func (s *Suite) SetupTest() {
//             s.Store = New(s.Seed)
//     }
//
//     // TestStore runs the registry generic tests.
//     func TestStore(t *testing.T) {
//             suite.Run(t, &Suite{})
//     }
//
// Every test expects to start with a store holding exactly the
// default seed dataset.
package registrytest

import (
	"context"

	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/seed"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic Store backend test suite.
type Suite struct {
	suite.Suite

	// Seed holds the default seed dataset.  It is loaded once in
	// SetupSuite; backends must copy it into a fresh store before
	// each test.
	Seed []registry.Application

	// Store contains the backend under test.  It is set by
	// importing packages.
	Store registry.Store

	// Ctx is a background context for store calls.
	Ctx context.Context
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	var err error
	s.Ctx = context.Background()
	s.Seed, err = seed.Default()
	s.Require().NoError(err)
}
