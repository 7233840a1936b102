// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidTenantID       = errors.New("invalid tenant id")
	ErrInvalidCollection     = errors.New("invalid collection name")
	ErrInvalidEntityID       = errors.New("invalid entity id")
	ErrLocalEntityID         = errors.New("local ids are not accepted by the server")
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	ErrEmptyData             = errors.New("data is required")
	ErrDataNotObject         = errors.New("data must be a JSON object")
)
