// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/diffeo/go-appregistry/registry"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error decoding
// HTTP headers or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// StatusOf returns the HTTP status code that corresponds to err, or
// def if there isn't a specific one.  Validation failures are always
// 400 Bad Request and missing records are always 404 Not Found, even
// if they are not wrapped.
func StatusOf(err error, def int) int {
	switch et := err.(type) {
	case ErrorStatus:
		return et.HTTPStatus()
	case registry.ValidationErrors:
		return http.StatusBadRequest
	case registry.ErrNoSuchApplication:
		return http.StatusNotFound
	}
	return def
}

// FromError populates an ErrorResponse to fill in its fields based
// on an error value.
func (e *ErrorResponse) FromError(err error) {
	switch et := err.(type) {
	case ErrNotFound:
		// Discard this wrapper and return the embedded error
		e.FromError(et.Err)
	case ErrBadRequest:
		e.FromError(et.Err)
	default:
		e.Error = err.Error()
	}
}

// ToError converts e back to an error.  This produces a
// registry.ErrNoSuchApplication, without its ID, if the message
// matches; otherwise a plain error with the e.Error text.
func (e *ErrorResponse) ToError() error {
	notFound := registry.ErrNoSuchApplication{}
	if e.Error == notFound.Error() {
		return notFound
	}
	return errors.New(e.Error)
}

// FromPanic populates an error response based on a panic.  Typical use
// is:
//
//     defer func() {
//         if obj := recover(); obj != nil {
//             resp := restdata.ErrorResponse{}
//             resp.FromPanic(obj)
//             // write resp out as makes sense
//         }
//     }()
func (e *ErrorResponse) FromPanic(obj interface{}) {
	if recoveredError, isError := obj.(error); isError {
		e.Error = recoveredError.Error()
	} else {
		e.Error = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	len := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:len])
}
