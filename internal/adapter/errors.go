// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrRetryable marks transient failures: transport errors, timeouts,
	// 5xx and 429 responses.
	ErrRetryable = errors.New("retryable sync failure")

	// ErrNonRetryable marks failures that need caller action, such as
	// validation errors and conflicts (4xx).
	ErrNonRetryable = errors.New("non-retryable sync failure")

	// ErrTimeout is a retryable failure: the call did not finish in time and
	// its outcome on the server is unknown.
	ErrTimeout = fmt.Errorf("%w: request timed out", ErrRetryable)

	ErrNotFound = errors.New("remote entity not found")
	ErrConflict = errors.New("remote conflict")
)

// IsRetryable reports whether err is a retryable sync failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}
