// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/carehome-sync/internal/app"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

var errorStatusMap = map[error]int{
	ErrIntegrityCheckFailed:        http.StatusBadRequest,
	ErrInvalidJSON:                 http.StatusBadRequest,
	ErrBodyTooLarge:                http.StatusRequestEntityTooLarge,
	service.ErrInvalidDataProvided: http.StatusBadRequest,

	store.ErrEntityNotFound:         http.StatusNotFound,
	store.ErrEntityConflict:         http.StatusConflict,
	store.ErrIdempotencyKeyConflict: http.StatusConflict,
	store.ErrTransientStorage:       http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func codeFromStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return models.CodeNotFound
	case status == http.StatusConflict:
		return models.CodeConflict
	case status >= http.StatusInternalServerError:
		return models.CodeInternal
	default:
		return models.CodeInvalidPayload
	}
}

// writeError answers with an [models.APIError] body. Details of server-side
// failures are logged, not returned.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = app.ServerSideMessage(status)
	}

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")

	utils.WriteError(w, status, codeFromStatus(status), message)
}
