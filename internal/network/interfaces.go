// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package network

import "context"

// Prober checks reachability of the remote API. A nil error means online.
type Prober interface {
	Probe(ctx context.Context) error
}

// Event is a connectivity edge.
type Event int

const (
	EventOffline Event = iota
	EventOnline
)

func (e Event) String() string {
	if e == EventOnline {
		return "online"
	}
	return "offline"
}
