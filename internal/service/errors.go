// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrDrainInProgress is returned by Drain when another drain of the
	// same engine is running; that drain will run again once it finishes.
	ErrDrainInProgress = errors.New("drain already in progress")

	ErrValidationNoTenantID   = errors.New("no tenant id was given")
	ErrValidationNoCollection = errors.New("no collection was given")
	ErrValidationNoEntityID   = errors.New("no entity id was given")
	ErrValidationDataNotJSON  = errors.New("entity data must be a JSON object")
)
