// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines common data structures shared between the
// restserver and restclient packages.  Generally JSON encodings of
// these are passed across the wire as the
// application/vnd.diffeo.appregistry.v1+json MIME type, though plain
// application/json is accepted and produced too.
//
// API Usage
//
// The application list is the root resource.  GET it to retrieve a
// JSON array of every application record, in ascending order of id.
// POST a record (without an id) to it to create a new record; the
// response is 201 Created with the stored record, including its
// assigned id, and a Location: header naming the new resource.
//
// Each record is a resource under the root, at /{application_id}/.
// GET returns the record, PUT replaces every field of it, and DELETE
// removes it, returning 204 No Content.  Partial updates are not
// supported: a PUT body must carry every field.
//
// A record is serialized as
//
//     {
//         "id": 1,
//         "app_name": "Fintone",
//         "app_version": "8.4",
//         "logo": "nisl.jpeg",
//         "company_name": "Littel-Collier"
//     }
//
// Request bodies may also be sent as
// application/x-www-form-urlencoded, with one form field per record
// field.
//
// Errors
//
// A request naming an id that does not exist returns 404 Not Found
// with a body of
//
//     {"error": "Application not found"}
//
// A POST or PUT body that does not describe a valid record returns
// 400 Bad Request.  The body is an object mapping each invalid
// field's name to a message, for instance
//
//     {
//         "logo": "The \"logo\" field is required.",
//         "company_name": "Must be one of \"Bogan-Kub\", ..."
//     }
//
// Other errors return an ErrorResponse object with an appropriate
// HTTP status code.
package restdata

// V1JSONMediaType is the MIME type for version 1 of the application
// registry JSON representation.
const V1JSONMediaType = "application/vnd.diffeo.appregistry.v1+json"

// JSONMediaType is the MIME type for the latest version of the
// application registry JSON representation.
const JSONMediaType = "application/vnd.diffeo.appregistry+json"

// FormMediaType is the MIME type for HTML form submissions, which are
// accepted as request bodies.
const FormMediaType = "application/x-www-form-urlencoded"

// ErrorResponse is returned as the response body for most errors.
type ErrorResponse struct {
	// Error is a human-readable description of the failure.
	Error string `json:"error"`

	// Stack holds a formatted backtrace, if the request failed
	// due to a panic.
	Stack string `json:"stack,omitempty"`
}
