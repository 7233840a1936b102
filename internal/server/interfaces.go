// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server is the lifecycle of the whole reference server.
type Server interface {
	// RunServer serves until SIGINT, SIGTERM or SIGQUIT and returns after
	// every transport has stopped.
	RunServer() error
}
