// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/internal/utils"
)

type Handler struct {
	services *service.Services
	hasher   *utils.Hasher

	logger *logger.Logger
}

// NewHandler builds the REST handler. When hashKey is set, write requests
// must carry a valid HashSHA256 header.
func NewHandler(services *service.Services, hashKey string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		hasher:   utils.NewHasher(hashKey),
		logger:   logger,
	}
}
