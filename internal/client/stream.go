// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/models"
)

const (
	streamBuffer = 16
	writeWait    = 5 * time.Second
	pingInterval = 30 * time.Second
)

// statusStream pushes every sync state transition to a websocket. The
// current state goes first so a subscriber never starts blind.
func (a *API) statusStream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		log.Warn().Err(err).Str("func", "*API.statusStream").Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := make(chan models.SyncState, streamBuffer)
	unsubscribe := a.entities.SubscribeStatus(func(s models.SyncState) {
		offerLatest(updates, s)
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err = writeState(conn, a.entities.GetSyncStatus()); err != nil {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "agent shutting down"),
				time.Now().Add(writeWait))
			return
		case <-closed:
			return
		case s := <-updates:
			if err = writeState(conn, s); err != nil {
				log.Debug().Err(err).Str("func", "*API.statusStream").Msg("status subscriber gone")
				return
			}
		case <-ping.C:
			if err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// offerLatest never blocks the publisher. When the subscriber lags the
// oldest queued state is dropped in favour of s.
func offerLatest(ch chan models.SyncState, s models.SyncState) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func writeState(conn *websocket.Conn, s models.SyncState) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(s)
}
