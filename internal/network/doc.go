// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package network tracks whether the remote API is reachable.
//
// A [Monitor] probes the remote side periodically through a [Prober] and
// keeps the last observed state. Subscribers receive one [Event] per state
// edge: EventOnline when the agent goes from offline to online, EventOffline
// for the reverse. Platform connectivity signals can drive the monitor
// directly through [Monitor.SetOnline].
package network
