// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-appregistry/registry"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that processes all application
// registry requests.  All resources are under the URL path root,
// e.g. /777/.  For more control over this setup, create a mux.Router
// and call PopulateRouter instead.
func NewRouter(store registry.Store, schema *registry.Schema) *mux.Router {
	r := mux.NewRouter()
	PopulateRouter(r, store, schema)
	return r
}

// PopulateRouter adds application registry routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the registry under a subpath:
//
//     import "github.com/diffeo/go-appregistry/memory"
//     import "github.com/gorilla/mux"
//     r := mux.NewRouter()
//     s := r.PathPrefix("/applications").Subrouter()
//     store := memory.New(apps)
//     PopulateRouter(s, store, registry.NewSchema(registry.CompaniesOf(apps)))
func PopulateRouter(r *mux.Router, store registry.Store, schema *registry.Schema) {
	api := &restAPI{Store: store, Schema: schema, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the application registry
// REST API.
type restAPI struct {
	Store  registry.Store
	Schema *registry.Schema
	Router *mux.Router
}

// PopulateRouter adds all URL paths to a router.  Each route maps a
// path pattern to one handler function per HTTP method.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	r.Path("/").Name("applications").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.ListApplications,
		Post:    api.CreateApplication,
	})
	r.Path("/{application_id:[0-9]+}/").Name("application").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.GetApplication,
		Put:     api.UpdateApplication,
		Delete:  api.DeleteApplication,
	})
}
