// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Defaults applied to the agent view when a value is not configured.
const (
	DefaultDSN            = "carehome-sync.db"
	DefaultRequestTimeout = 30 * time.Second
	DefaultSyncInterval   = 30 * time.Second
	DefaultProbeInterval  = 5 * time.Second
	DefaultConcurrency    = 4
	DefaultMaxAttempts    = 5
	DefaultBackoffBase    = time.Second
	DefaultBackoffMax     = 5 * time.Minute
	DefaultListenAddress  = "127.0.0.1:8787"
)

// ClientApp holds agent application settings.
type ClientApp struct {
	TenantID      string
	EncryptionKey string
	HashKey       string
}

// ClientAdapter holds how the agent reaches the remote API.
type ClientAdapter struct {
	HTTPAddress    string
	GRPCAddress    string
	RequestTimeout time.Duration
}

// ClientDB contains the local SQLite settings.
type ClientDB struct {
	DSN string
}

// ClientStorage groups agent storage settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains the sync engine and monitor settings.
type ClientWorkers struct {
	SyncInterval  time.Duration
	ProbeInterval time.Duration
	Concurrency   int
	MaxAttempts   int
	BackoffBase   time.Duration
	BackoffMax    time.Duration
}

// ClientAPI contains the local API listener settings.
type ClientAPI struct {
	ListenAddress string
	LogFile       string
}

// ClientConfig is the agent configuration assembled from [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	API     ClientAPI
}

// GetClientConfig builds and validates the agent view of the merged
// configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the fields relevant to the agent and fills defaults.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			TenantID:      cfg.App.TenantID,
			EncryptionKey: cfg.App.EncryptionKey,
			HashKey:       cfg.App.HashKey,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			GRPCAddress:    cfg.Adapter.GRPCAddress,
			RequestTimeout: durationOr(cfg.Adapter.RequestTimeout, DefaultRequestTimeout),
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: stringOr(cfg.Storage.DB.DSN, DefaultDSN)},
		},
		Workers: ClientWorkers{
			SyncInterval:  durationOr(cfg.Workers.SyncInterval, DefaultSyncInterval),
			ProbeInterval: durationOr(cfg.Workers.ProbeInterval, DefaultProbeInterval),
			Concurrency:   intOr(cfg.Workers.Concurrency, DefaultConcurrency),
			MaxAttempts:   intOr(cfg.Workers.MaxAttempts, DefaultMaxAttempts),
			BackoffBase:   durationOr(cfg.Workers.BackoffBase, DefaultBackoffBase),
			BackoffMax:    durationOr(cfg.Workers.BackoffMax, DefaultBackoffMax),
		},
		API: ClientAPI{
			ListenAddress: stringOr(cfg.Client.ListenAddress, DefaultListenAddress),
			LogFile:       cfg.Client.LogFile,
		},
	}
}

func durationOr(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func intOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
