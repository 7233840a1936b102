// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client runs the offline-first sync agent.
//
// It wires the local store, the remote API client, the network monitor and
// the sync job into one process, and serves the loopback API that frontends
// use to read and write entities and to follow the sync status.
package client
