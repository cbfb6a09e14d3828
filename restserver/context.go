// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/restdata"
	"github.com/gorilla/mux"
)

// errUnmarshal is returned if the request body cannot be decoded.
var errUnmarshal = restdata.ErrBadRequest{
	Err: errors.New("Invalid input format"),
}

// requestContext holds all of the information and objects that can be
// extracted from URL parameters.
type requestContext struct {
	// Context is the context of the HTTP request.
	Context context.Context

	// ID is the application ID from the URL, if any.
	ID int

	// Application is the stored record named by ID.  It is only
	// filled in if the URL names an application, and in that case
	// the record is known to have existed when the request began.
	Application registry.Application
}

// Context builds the request context for req.  If the URL names an
// application that does not exist, returns a 404 error.
func (api *restAPI) Context(req *http.Request) (ctx *requestContext, err error) {
	ctx = &requestContext{Context: req.Context()}
	vars := mux.Vars(req)

	if idStr, present := vars["application_id"]; present {
		ctx.ID, err = strconv.Atoi(idStr)
		if err != nil {
			// The route only matches digits, so this is an
			// overflow; no such record can exist
			err = registry.ErrNoSuchApplication{}
		}
		if err == nil {
			ctx.Application, err = api.Store.Get(ctx.Context, ctx.ID)
		}
		if registry.IsNotFound(err) {
			err = restdata.ErrNotFound{Err: err}
		}
	}

	return
}
