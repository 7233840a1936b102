// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the reference remote API.
//
// Routes are tenant scoped: /api/{tenant}/{collection}[/{id}]. Request
// tracing, access logging, response compression and body integrity checks
// are applied as middleware before requests reach the service layer.
package http
