// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent HTTPClient. Resty's own retry loop is
// disabled: callers that retry (the sync engine) own the schedule.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New().SetRetryCount(0)}
}

// NewHTTPClientWithBase creates an HTTPClient bound to baseURL with a
// per-request timeout.
func NewHTTPClientWithBase(baseURL string, timeout time.Duration) *HTTPClient {
	c := NewHTTPClient()
	c.SetBaseURL(baseURL)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// NormalizeBaseURL turns a configured address ("host:port" or a full URL)
// into a base URL without a trailing slash. A missing scheme defaults to http.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}
