// Copyright 2015-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diffeo/go-appregistry/memory"
	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/registry/registrytest"
	"github.com/diffeo/go-appregistry/restclient"
	"github.com/diffeo/go-appregistry/restserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic tests over an object stack where the REST
// client code talks to the REST server code, which points at an
// in-memory backend.
type Suite struct {
	registrytest.Suite
	server *httptest.Server
}

// SetupTest starts a fresh server for each test.
func (s *Suite) SetupTest() {
	backend := memory.New(s.Seed)
	schema := registry.NewSchema(registry.CompaniesOf(s.Seed))
	s.server = httptest.NewServer(restserver.NewRouter(backend, schema))
	var err error
	s.Store, err = restclient.New(s.server.URL)
	s.Require().NoError(err)
}

// TearDownTest stops the per-test server.
func (s *Suite) TearDownTest() {
	s.server.Close()
}

// TestCreateInvalid checks that server-side validation comes back as
// a field map.
func (s *Suite) TestCreateInvalid() {
	_, err := s.Store.Create(s.Ctx, registry.Application{
		AppName:     "Wootwa",
		CompanyName: "Google",
	})
	if s.Error(err) && s.IsType(registry.ValidationErrors{}, err) {
		errs := err.(registry.ValidationErrors)
		s.Contains(errs, "app_version")
		s.Contains(errs, "logo")
		s.Contains(errs, "company_name")
		s.NotContains(errs, "app_name")
	}
	s.CountIs(registrytest.SeedSize)
}

// TestUpdateInvalid checks that a rejected update leaves the record
// alone.
func (s *Suite) TestUpdateInvalid() {
	bad := registrytest.It
	bad.Logo = ""
	_, err := s.Store.Update(s.Ctx, bad.ID, bad)
	if s.IsType(registry.ValidationErrors{}, err) {
		s.Equal("Must not be blank.", err.(registry.ValidationErrors)["logo"])
	}
	s.Has(registrytest.It)
}

func TestStore(t *testing.T) {
	suite.Run(t, &Suite{})
}

func TestEmptyURL(t *testing.T) {
	_, err := restclient.New("")
	assert.Error(t, err)
}

func TestBadScheme(t *testing.T) {
	_, err := restclient.New("ftp://localhost/")
	assert.Error(t, err)
}

// TestSubpath checks that a base URL without a trailing slash still
// resolves record URLs under it.
func TestSubpath(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		paths = append(paths, req.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store, err := restclient.New(server.URL + "/applications")
	if assert.NoError(t, err) {
		assert.NoError(t, store.Delete(context.Background(), 17))
		assert.Equal(t, []string{"/applications/17/"}, paths)
	}
}

// TestUnstructuredError checks that an error body that is not JSON
// still produces an error.
func TestUnstructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	store, err := restclient.New(server.URL)
	if !assert.NoError(t, err) {
		return
	}
	_, err = store.List(context.Background())
	if assert.IsType(t, restclient.ErrorHTTP{}, err) {
		assert.Equal(t, "upstream down", err.(restclient.ErrorHTTP).Body)
		assert.Equal(t, http.StatusBadGateway, err.(restclient.ErrorHTTP).Response.StatusCode)
	}
}
