// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package network

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCProber asks the standard gRPC health service of the remote API.
type GRPCProber struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	service string
}

// NewGRPCProber dials address lazily. service selects the health entry to
// query; an empty string means the whole server.
func NewGRPCProber(address, service string) (*GRPCProber, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", address, err)
	}

	return &GRPCProber{
		conn:    conn,
		client:  healthpb.NewHealthClient(conn),
		service: service,
	}, nil
}

func (p *GRPCProber) Probe(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("health status %s", resp.GetStatus())
	}
	return nil
}

func (p *GRPCProber) Close() error {
	return p.conn.Close()
}
