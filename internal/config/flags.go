// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

func commandLineArgs() []string {
	return os.Args[1:]
}

// parseFlags parses all configuration flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-d database DSN (SQLite path for the agent, PostgreSQL DSN for the server)
//	-c/-config config file path (.json, .toml, .yaml)
//	-tenant tenant (care home) id
//	-encryption-key at-rest encryption secret
//	-hash-key request integrity hash key
//	-server-url remote API base URL used by the agent
//	-server-grpc remote gRPC health address used by the agent
//	-request-timeout per-request timeout (e.g. "30s")
//	-sync-interval safety-net sync period
//	-probe-interval connectivity probe period
//	-concurrency parallel entity lanes
//	-max-attempts retry ceiling per mutation
//	-listen agent local API address
//	-log-file agent log file
func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var (
		databaseDSN, configPath                string
		tenantID, encryptionKey, hashKey       string
		adapterURL, adapterGRPC                string
		listenAddress, logFile                 string
		requestTimeout, syncInterval, probeInt time.Duration
		concurrency, maxAttempts               int
	)

	fs := flag.NewFlagSet("carehome-sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&configPath, "c", "", "Config file path")
	fs.StringVar(&configPath, "config", "", "Config file path (alias)")
	fs.StringVar(&tenantID, "tenant", "", "Tenant id")
	fs.StringVar(&encryptionKey, "encryption-key", "", "At-rest encryption key")
	fs.StringVar(&hashKey, "hash-key", "", "Security hash key")
	fs.StringVar(&adapterURL, "server-url", "", "Remote API base URL")
	fs.StringVar(&adapterGRPC, "server-grpc", "", "Remote gRPC health address")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Safety-net sync interval")
	fs.DurationVar(&probeInt, "probe-interval", 0, "Connectivity probe interval")
	fs.IntVar(&concurrency, "concurrency", 0, "Parallel entity lanes")
	fs.IntVar(&maxAttempts, "max-attempts", 0, "Retry ceiling per mutation")
	fs.StringVar(&listenAddress, "listen", "", "Agent local API address")
	fs.StringVar(&logFile, "log-file", "", "Agent log file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TenantID:      tenantID,
			EncryptionKey: encryptionKey,
			HashKey:       hashKey,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterURL,
			GRPCAddress:    adapterGRPC,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SyncInterval:  syncInterval,
			ProbeInterval: probeInt,
			Concurrency:   concurrency,
			MaxAttempts:   maxAttempts,
		},
		Client: Client{
			ListenAddress: listenAddress,
			LogFile:       logFile,
		},
		ConfigFilePath: configPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress, or "" when
// neither part is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range and checks IP correctness unless host is
// "localhost".
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
