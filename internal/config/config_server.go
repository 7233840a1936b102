// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ServerConfig is the reference server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	App     App
	Storage Storage
	Server  Server
}

// GetServerConfig builds and validates the server view of the merged
// configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := NewServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

// NewServerConfig maps the fields relevant to the server and fills defaults.
func NewServerConfig(cfg *StructuredConfig) *ServerConfig {
	srv := cfg.Server
	srv.RequestTimeout = durationOr(srv.RequestTimeout, 15*time.Second)

	return &ServerConfig{
		App:     cfg.App,
		Storage: cfg.Storage,
		Server:  srv,
	}
}
