// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes a registry.Store as a REST service.
// The restclient package is a matching client.
//
// The complete REST API is described in the restdata package.
//
// HTTP Considerations
//
// Responses are JSON.  Clients may use the standard HTTP Accept:
// header to request a specific JSON media type; see "MIME Types"
// below.  Request bodies may be JSON or URL-encoded HTML forms.
//
// This interface does not support HTTP caching or authentication
// headers.
//
// MIME Types
//
// This interface understands MIME types as follows:
//
//     application/vnd.diffeo.appregistry.v1+json
//
// JSON representation of version 1 of this interface.
//
//     application/vnd.diffeo.appregistry+json
//     application/json
//     text/json
//
// JSON representation of latest version of this interface.
//
//     application/x-www-form-urlencoded
//
// Accepted for request bodies only.
//
// URL Scheme
//
// The following URLs are defined:
//
//     /                      GET, POST
//     /{application_id}/     GET, PUT, DELETE
//
// application_id must be a decimal integer; any other path is 404
// Not Found.
package restserver
