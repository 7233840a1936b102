// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// StructuredFileConfig is the on-disk layout shared by all supported file
// formats.
type StructuredFileConfig struct {
	App struct {
		TenantID      string `json:"tenant_id" toml:"tenant_id" yaml:"tenant_id"`
		EncryptionKey string `json:"encryption_key" toml:"encryption_key" yaml:"encryption_key"`
		HashKey       string `json:"hash_key" toml:"hash_key" yaml:"hash_key"`
		Version       string `json:"version" toml:"version" yaml:"version"`
	} `json:"app" toml:"app" yaml:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" toml:"dsn" yaml:"dsn"`
		} `json:"db" toml:"db" yaml:"db"`
	} `json:"storage" toml:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress    string   `json:"http_address" toml:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" toml:"grpc_address" yaml:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
	} `json:"server" toml:"server" yaml:"server"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" toml:"http_address" yaml:"http_address"`
		GRPCAddress    string   `json:"grpc_address" toml:"grpc_address" yaml:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
	} `json:"adapter" toml:"adapter" yaml:"adapter"`

	Workers struct {
		SyncInterval  Duration `json:"sync_interval" toml:"sync_interval" yaml:"sync_interval"`
		ProbeInterval Duration `json:"probe_interval" toml:"probe_interval" yaml:"probe_interval"`
		Concurrency   int      `json:"concurrency" toml:"concurrency" yaml:"concurrency"`
		MaxAttempts   int      `json:"max_attempts" toml:"max_attempts" yaml:"max_attempts"`
		BackoffBase   Duration `json:"backoff_base" toml:"backoff_base" yaml:"backoff_base"`
		BackoffMax    Duration `json:"backoff_max" toml:"backoff_max" yaml:"backoff_max"`
	} `json:"workers" toml:"workers" yaml:"workers"`

	Client struct {
		ListenAddress string `json:"listen_address" toml:"listen_address" yaml:"listen_address"`
		LogFile       string `json:"log_file" toml:"log_file" yaml:"log_file"`
	} `json:"client" toml:"client" yaml:"client"`
}

// parseFile decodes the config file at path, choosing the format by
// extension. Unknown extensions are decoded as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fileCfg StructuredFileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fileCfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fileCfg)
	default:
		err = json.Unmarshal(data, &fileCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}

	return fileCfg.toStructured(), nil
}

func (f *StructuredFileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TenantID:      f.App.TenantID,
			EncryptionKey: f.App.EncryptionKey,
			HashKey:       f.App.HashKey,
			Version:       f.App.Version,
		},
		Storage: Storage{
			DB: DB{DSN: f.Storage.DB.DSN},
		},
		Server: Server{
			HTTPAddress:    f.Server.HTTPAddress,
			GRPCAddress:    f.Server.GRPCAddress,
			RequestTimeout: time.Duration(f.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    f.Adapter.HTTPAddress,
			GRPCAddress:    f.Adapter.GRPCAddress,
			RequestTimeout: time.Duration(f.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncInterval:  time.Duration(f.Workers.SyncInterval),
			ProbeInterval: time.Duration(f.Workers.ProbeInterval),
			Concurrency:   f.Workers.Concurrency,
			MaxAttempts:   f.Workers.MaxAttempts,
			BackoffBase:   time.Duration(f.Workers.BackoffBase),
			BackoffMax:    time.Duration(f.Workers.BackoffMax),
		},
		Client: Client{
			ListenAddress: f.Client.ListenAddress,
			LogFile:       f.Client.LogFile,
		},
	}
}

// Duration is a time.Duration that decodes from strings like "1h" or "30s"
// in every supported file format, and from integer nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// UnmarshalText is used by the TOML and YAML decoders.
func (d *Duration) UnmarshalText(text []byte) error {
	tmp, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML accepts the same string form as [Duration.UnmarshalText].
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}
