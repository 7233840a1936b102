// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/carehome-sync/internal/app"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/queue"
	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

var errorStatusMap = map[error]int{
	errInvalidJSON:                    http.StatusBadRequest,
	service.ErrInvalidDataProvided:    http.StatusBadRequest,
	service.ErrValidationNoCollection: http.StatusBadRequest,
	service.ErrValidationNoEntityID:   http.StatusBadRequest,
	queue.ErrInvalidMutation:          http.StatusBadRequest,

	store.ErrEntityNotFound:   http.StatusNotFound,
	store.ErrMutationNotFound: http.StatusNotFound,
	store.ErrStaleRecord:      http.StatusConflict,

	store.ErrStorageFailure: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	code := models.CodeInvalidPayload
	switch {
	case status == http.StatusNotFound:
		code = models.CodeNotFound
	case status == http.StatusConflict:
		code = models.CodeConflict
	case status >= http.StatusInternalServerError:
		code = models.CodeInternal
	}

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg("local request failed")

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = app.ServerSideMessage(status)
	}

	utils.WriteError(w, status, code, message)
}
