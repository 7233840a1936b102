// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

const healthTimeout = 2 * time.Second

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}

// health answers 503 while the database is unreachable, which agents treat
// as offline.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.services.HealthService != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.services.HealthService.Ping(ctx); err != nil {
			logger.FromRequest(r).Err(err).Str("func", "*Handler.health").Msg("health check failed")
			utils.WriteJSON(w, models.HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}

	utils.WriteJSON(w, models.HealthResponse{Status: "ok"}, http.StatusOK)
}
