// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package network

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/carehome-sync/internal/utils"
)

const healthPath = "/api/health"

// HTTPProber calls GET /api/health on the remote API.
type HTTPProber struct {
	client *utils.HTTPClient
}

// NewHTTPProber builds a prober for address ("host:port" or a URL).
func NewHTTPProber(address string, timeout time.Duration) (*HTTPProber, error) {
	baseURL, err := utils.NormalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid probe address: %w", err)
	}

	return &HTTPProber{client: utils.NewHTTPClientWithBase(baseURL, timeout)}, nil
}

func (p *HTTPProber) Probe(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned %d", resp.StatusCode())
	}
	return nil
}
