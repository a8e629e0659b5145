// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for locally detected precondition
// violations (empty identifier, empty message). It is always raised
// before any network call is made.
var ErrInvalidArgument = errors.New("invalid argument")

// Backend error codes, mirroring the server's error enum.
const (
	CodeOK              = 0
	CodeInvalidRequest  = 40001
	CodeSessionNotFound = 40401
	CodeAIProcessError  = 50002
	CodeSessionStop     = 50004
)

// AppError is an application-level failure: the backend answered the
// HTTP request, but the response envelope carried a non-zero code.
//
// The original envelope is retained for diagnostics.
type AppError struct {
	Code     int
	Message  string
	Envelope *Envelope
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend error (code %d)", e.Code)
}

// TransportError is a transport-level failure: a network error, or a
// non-success HTTP status without a parseable envelope. It is never
// retried by this layer.
type TransportError struct {
	// StatusCode is the HTTP status, or 0 when the request never
	// produced a response (connection refused, timeout, DNS).
	StatusCode int
	// URL is the request target, for diagnostics.
	URL string
	// Err is the underlying cause, if any.
	Err error
	// Body holds the (truncated) response body for non-2xx statuses.
	Body string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAppError reports whether err is (or wraps) an application-level
// failure and returns it when so.
func IsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsTransportError reports whether err is (or wraps) a transport-level
// failure and returns it when so.
func IsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
