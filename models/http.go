// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// APIError is the structured error body returned by the remote API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Status is the HTTP status of the response that carried the body.
	Status int `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d: %s: %s", e.Status, e.Code, e.Message)
}

// Error codes used by the remote API.
const (
	CodeInvalidPayload = "invalid_payload"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInternal       = "internal"
)

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Headers of the remote API wire contract.
const (
	HeaderIdempotencyKey   = "Idempotency-Key"
	HeaderIdempotentReplay = "Idempotent-Replay"
	HeaderTraceID          = "X-Trace-ID"
)

// HealthServiceName is the grpc.health.v1 service the reference server
// reports and agents probe.
const HealthServiceName = "carehome.sync.v1.Entities"
