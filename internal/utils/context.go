// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities used across
// different parts of the application: context keys, identifier generation,
// request integrity hashing, JSON response writing and HTTP client setup.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// TenantIDCtxKey is the key used to store the care-home tenant identifier
// in the context.
//
//	ctx := context.WithValue(ctx, utils.TenantIDCtxKey, "home-42")
var TenantIDCtxKey = contextKey("tenantID")

// GetTenantIDFromContext retrieves the tenant identifier from the context.
// ok is false when the value is missing, empty or has an unexpected type.
func GetTenantIDFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDCtxKey).(string)
	return tenantID, ok && tenantID != ""
}

// WithTenantID returns a copy of ctx carrying tenantID.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantIDCtxKey, tenantID)
}

// TraceIDCtxKey is the key used to store the trace identifier of a request or
// a drain cycle. Outgoing requests forward it in the X-Trace-ID header.
var TraceIDCtxKey = contextKey("traceID")

// GetTraceIDFromContext retrieves the trace identifier from the context.
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok && traceID != ""
}

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDCtxKey, traceID)
}
