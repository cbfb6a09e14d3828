// Copyright 2015-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides a registry.Store that talks to the
// matching server in the "restserver" package.
//
// The server in github.com/diffeo/go-appregistry/cmd/appregistryd
// runs a compatible REST server.  Call New() with the base URL of
// that service; for instance,
//
//     store, err := restclient.New("http://localhost:5000/")
//
// Errors come back as their registry equivalents: a missing record is
// registry.ErrNoSuchApplication and a rejected record is
// registry.ValidationErrors.
package restclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/diffeo/go-appregistry/registry"
)

const applicationTemplate = "{application_id}/"

// New creates a new registry.Store that speaks to an external REST
// server.
func New(baseURL string) (registry.Store, error) {
	if baseURL == "" {
		return nil, errEmptyURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("restclient: unsupported URL scheme %q", u.Scheme)
	}
	// Record URLs are resolved relative to the list, so the list
	// must look like a directory
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &restStore{resource: resource{URL: u}}, nil
}

type restStore struct {
	resource
}

func appVars(id int) map[string]interface{} {
	return map[string]interface{}{"application_id": strconv.Itoa(id)}
}

// withID fills in the ID of a not-found error, which the server does
// not send back.
func withID(err error, id int) error {
	if registry.IsNotFound(err) {
		return registry.ErrNoSuchApplication{ID: id}
	}
	return err
}

func (s *restStore) List(ctx context.Context) ([]registry.Application, error) {
	apps := []registry.Application{}
	err := s.Do(ctx, "GET", s.URL, nil, &apps)
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *restStore) Count(ctx context.Context) (int, error) {
	apps, err := s.List(ctx)
	return len(apps), err
}

func (s *restStore) Create(ctx context.Context, app registry.Application) (result registry.Application, err error) {
	err = s.Do(ctx, "POST", s.URL, app, &result)
	return
}

func (s *restStore) Get(ctx context.Context, id int) (app registry.Application, err error) {
	err = withID(s.GetFrom(ctx, applicationTemplate, appVars(id), &app), id)
	return
}

func (s *restStore) Update(ctx context.Context, id int, app registry.Application) (result registry.Application, err error) {
	err = withID(s.PutTo(ctx, applicationTemplate, appVars(id), app, &result), id)
	return
}

func (s *restStore) Delete(ctx context.Context, id int) error {
	return withID(s.DeleteAt(ctx, applicationTemplate, appVars(id)), id)
}
