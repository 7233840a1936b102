// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the human-readable messages the reference server and
// the agent's local API put into [models.APIError] bodies when the error
// itself must not, or cannot, be shown.
//
// [models.APIError]: github.com/MKhiriev/carehome-sync/models.APIError
package app

import "net/http"

const (
	// MsgInternalServerError replaces the detail of any 500 response.
	MsgInternalServerError = "internal server error"

	// MsgServiceUnavailable replaces the detail of a 503 response caused by
	// a transient storage failure. Agents retry these.
	MsgServiceUnavailable = "service temporarily unavailable, retry later"

	// MsgRouteNotFound is returned for paths no route matches.
	MsgRouteNotFound = "route not found"

	// MsgMethodNotAllowed prefixes the 405 message; the method is appended.
	MsgMethodNotAllowed = "method not allowed"

	// MsgInvalidGzipBody is returned when a request declares gzip encoding
	// but the body cannot be decompressed.
	MsgInvalidGzipBody = "invalid gzip data"

	// MsgRequestTimedOut is the body of a request cut off by the server's
	// request timeout.
	MsgRequestTimedOut = "request timed out"
)

// ServerSideMessage returns the message shown for a 5xx status.
func ServerSideMessage(status int) string {
	if status == http.StatusServiceUnavailable {
		return MsgServiceUnavailable
	}
	return MsgInternalServerError
}
