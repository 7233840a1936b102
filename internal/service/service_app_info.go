// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
)

const defaultAppVersion = "dev"

type appInfoService struct {
	appVersion string

	logger *logger.Logger
}

// NewAppInfoService reports cfg.Version, or "dev" when it is not set.
func NewAppInfoService(cfg config.App, logger *logger.Logger) AppInfoService {
	version := cfg.Version
	if version == "" {
		version = defaultAppVersion
	}

	return &appInfoService{
		appVersion: version,
		logger:     logger,
	}
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}
