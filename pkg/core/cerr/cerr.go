// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr provides the core errors. An Error wraps another error
// and attaches an HTTP status code to it, so the use cases can decide
// how a failure should be reported without depending on the REST
// framework. Errors which are not wrapped by this package are reported
// as internal server errors.
package cerr

import (
	"fmt"
	"net/http"
)

// Error wraps Err and keeps the HTTP status code which should be used
// when reporting it to a web client.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// BadGateway reports a failure of a remote collaborator.
func BadGateway(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadGateway}
}

func ServiceUnavailable(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusServiceUnavailable}
}
