// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"strconv"

	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/restdata"
)

func (api *restAPI) ListApplications(ctx *requestContext) (interface{}, error) {
	return api.Store.List(ctx.Context)
}

func (api *restAPI) CreateApplication(ctx *requestContext, in map[string]interface{}) (interface{}, error) {
	app, err := api.Schema.Validate(in)
	if err != nil {
		return nil, err
	}
	app, err = api.Store.Create(ctx.Context, app)
	if err != nil {
		return nil, err
	}
	resp := responseCreated{Body: app}
	err = buildURLs(api.Router, "application_id", strconv.Itoa(app.ID)).
		URL(&resp.Location, "application").
		Error
	return resp, err
}

func (api *restAPI) GetApplication(ctx *requestContext) (interface{}, error) {
	return ctx.Application, nil
}

func (api *restAPI) UpdateApplication(ctx *requestContext, in map[string]interface{}) (interface{}, error) {
	app, err := api.Schema.Validate(in)
	if err != nil {
		return nil, err
	}
	app, err = api.Store.Update(ctx.Context, ctx.ID, app)
	if registry.IsNotFound(err) {
		// Deleted since Context() looked it up
		return nil, restdata.ErrNotFound{Err: err}
	}
	return app, err
}

func (api *restAPI) DeleteApplication(ctx *requestContext) (interface{}, error) {
	err := api.Store.Delete(ctx.Context, ctx.ID)
	if registry.IsNotFound(err) {
		err = restdata.ErrNotFound{Err: err}
	}
	return nil, err
}
