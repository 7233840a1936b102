// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging values from environment variables, command-line flags and an
// optional config file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	App     App     `envPrefix:"APP_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Server  Server  `envPrefix:"SERVER_"`
	Adapter Adapter `envPrefix:"ADAPTER_"`
	Workers Workers `envPrefix:"WORKERS_"`
	Client  Client  `envPrefix:"CLIENT_"`

	// ConfigFilePath is the optional path to a config file. Populated via the
	// CONFIG environment variable or the -c / -config flag.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// TenantID is the care home this agent synchronises for.
	// Env: APP_TENANT_ID
	TenantID string `env:"TENANT_ID"`

	// EncryptionKey is the hex or passphrase secret used to seal cached
	// entities and payloads at rest. Empty disables sealing.
	// Env: APP_ENCRYPTION_KEY
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// HashKey is the HMAC key for request body integrity (HashSHA256 header).
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is exposed via /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the database connection string: a SQLite file path for the agent,
// a PostgreSQL DSN for the server.
type DB struct {
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds listener settings of the reference remote API.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds how the agent reaches the remote API.
type Adapter struct {
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// GRPCAddress, when set, switches connectivity probing to the gRPC
	// health service.
	// Env: ADAPTER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds the sync engine and network monitor tuning.
type Workers struct {
	// SyncInterval is the period of the safety-net drain.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
	// ProbeInterval bounds how long a connectivity change goes unnoticed.
	// Env: WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
	// Concurrency is the number of entity lanes drained in parallel.
	// Env: WORKERS_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`
	// MaxAttempts is the retry ceiling before a mutation is marked failed.
	// Env: WORKERS_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`
	// Env: WORKERS_BACKOFF_BASE
	BackoffBase time.Duration `env:"BACKOFF_BASE"`
	// Env: WORKERS_BACKOFF_MAX
	BackoffMax time.Duration `env:"BACKOFF_MAX"`
}

// Client holds settings of the agent's local API.
type Client struct {
	// Env: CLIENT_LISTEN_ADDRESS
	ListenAddress string `env:"LISTEN_ADDRESS"`
	// Env: CLIENT_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources (env, flags, file; the last non-zero value wins).
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(commandLineArgs()).
		withFile().
		build()
}
