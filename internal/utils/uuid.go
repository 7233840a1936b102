// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strings"

	"github.com/google/uuid"
)

// LocalIDPrefix marks identifiers minted on the client for entities the
// server has not acknowledged yet.
const LocalIDPrefix = "local-"

// UUIDGenerator produces time-ordered identifiers.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7, falling back to a random v4 if the clock source
// fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// LocalID returns a fresh client-side entity id.
func (g *UUIDGenerator) LocalID() string {
	return LocalIDPrefix + g.Generate()
}

// IsLocalID reports whether id was minted by [UUIDGenerator.LocalID].
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}
