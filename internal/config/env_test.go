// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"CONFIG": "/etc/carehome/agent.toml",

		"APP_TENANT_ID":      "home-7",
		"APP_ENCRYPTION_KEY": "secret",
		"APP_HASH_KEY":       "hash",
		"APP_VERSION":        "1.4.0",

		"STORAGE_DB_DATABASE_URI": "/var/lib/carehome/agent.db",

		"SERVER_ADDRESS":         "localhost:8080",
		"SERVER_GRPC_ADDRESS":    "localhost:9090",
		"SERVER_REQUEST_TIMEOUT": "15s",

		"ADAPTER_ADDRESS":         "https://api.carehome.example",
		"ADAPTER_GRPC_ADDRESS":    "api.carehome.example:9090",
		"ADAPTER_REQUEST_TIMEOUT": "30s",

		"WORKERS_SYNC_INTERVAL":  "45s",
		"WORKERS_PROBE_INTERVAL": "3s",
		"WORKERS_CONCURRENCY":    "8",
		"WORKERS_MAX_ATTEMPTS":   "6",
		"WORKERS_BACKOFF_BASE":   "2s",
		"WORKERS_BACKOFF_MAX":    "10m",

		"CLIENT_LISTEN_ADDRESS": "127.0.0.1:9999",
		"CLIENT_LOG_FILE":       "/var/log/carehome/agent.log",
	})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "/etc/carehome/agent.toml", cfg.ConfigFilePath)
	assert.Equal(t, "home-7", cfg.App.TenantID)
	assert.Equal(t, "secret", cfg.App.EncryptionKey)
	assert.Equal(t, "hash", cfg.App.HashKey)
	assert.Equal(t, "1.4.0", cfg.App.Version)
	assert.Equal(t, "/var/lib/carehome/agent.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "localhost:9090", cfg.Server.GRPCAddress)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "https://api.carehome.example", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "api.carehome.example:9090", cfg.Adapter.GRPCAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 45*time.Second, cfg.Workers.SyncInterval)
	assert.Equal(t, 3*time.Second, cfg.Workers.ProbeInterval)
	assert.Equal(t, 8, cfg.Workers.Concurrency)
	assert.Equal(t, 6, cfg.Workers.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Workers.BackoffBase)
	assert.Equal(t, 10*time.Minute, cfg.Workers.BackoffMax)
	assert.Equal(t, "127.0.0.1:9999", cfg.Client.ListenAddress)
	assert.Equal(t, "/var/log/carehome/agent.log", cfg.Client.LogFile)
}

func TestParseEnv_Empty(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Empty(t, cfg.App.TenantID)
	assert.Zero(t, cfg.Workers.Concurrency)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("WORKERS_SYNC_INTERVAL", "not-a-duration")

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	t.Setenv("WORKERS_CONCURRENCY", "four")

	require.Error(t, parseEnv(&StructuredConfig{}))
}
