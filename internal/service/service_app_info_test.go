// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
)

// ─────────────────────────────────────────────
// NewAppInfoService
// ─────────────────────────────────────────────

func TestNewAppInfoService_EmptyVersion_FallsBackToDev(t *testing.T) {
	svc := NewAppInfoService(config.App{}, logger.Nop())

	assert.Equal(t, "dev", svc.GetAppVersion(context.Background()))
}

// ─────────────────────────────────────────────
// GetAppVersion
// ─────────────────────────────────────────────

func TestGetAppVersion_ReturnsConfiguredVersion(t *testing.T) {
	svc := NewAppInfoService(config.App{Version: "3.1.4"}, logger.Nop())

	assert.Equal(t, "3.1.4", svc.GetAppVersion(context.Background()))
}

func TestGetAppVersion_DifferentInstances_IndependentVersions(t *testing.T) {
	svc1 := NewAppInfoService(config.App{Version: "1.0.0"}, logger.Nop())
	svc2 := NewAppInfoService(config.App{Version: "2.0.0"}, logger.Nop())

	assert.Equal(t, "1.0.0", svc1.GetAppVersion(context.Background()))
	assert.Equal(t, "2.0.0", svc2.GetAppVersion(context.Background()))
}

func TestGetAppVersion_CancelledContext_StillReturnsVersion(t *testing.T) {
	svc := NewAppInfoService(config.App{Version: "v1.2.3-beta+build.42"}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "v1.2.3-beta+build.42", svc.GetAppVersion(ctx))
}
