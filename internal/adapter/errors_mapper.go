// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/carehome-sync/models"
)

// mapHTTPError classifies a non-2xx response. The {code, message} body is
// kept as a *models.APIError inside the returned chain.
func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	apiErr := decodeAPIError(resp)

	switch {
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", ErrRetryable, apiErr)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %w: %w", ErrNonRetryable, ErrNotFound, apiErr)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %w: %w", ErrNonRetryable, ErrConflict, apiErr)
	default:
		return fmt.Errorf("%w: %w", ErrNonRetryable, apiErr)
	}
}

func decodeAPIError(resp *resty.Response) *models.APIError {
	apiErr := &models.APIError{Status: resp.StatusCode()}

	body := resp.Body()
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Code == "" && apiErr.Message == "") {
		apiErr.Code = ""
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}

	return apiErr
}

// mapTransportError classifies an error returned before any response was
// read. Every transport failure is retryable; deadlines become [ErrTimeout].
func mapTransportError(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrRetryable, err)
}
