// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrIntegrityCheckFailed is returned when the HashSHA256 header does
	// not match the request body.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")

	// ErrInvalidJSON is returned for a body that is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	ErrBodyTooLarge = errors.New("request body too large")
)
