// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server wires and runs the reference server's transports.
//
// The HTTP API, the gRPC health service and the background janitor run as
// [workers.Workers]; a stop signal or the failure of any of them shuts the
// rest down gracefully.
package server
