// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Generate_V7(t *testing.T) {
	g := NewUUIDGenerator()

	id, err := uuid.Parse(g.Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestUUIDGenerator_Generate_Ordered(t *testing.T) {
	g := NewUUIDGenerator()

	prev := g.Generate()
	for i := 0; i < 100; i++ {
		next := g.Generate()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestUUIDGenerator_LocalID(t *testing.T) {
	g := NewUUIDGenerator()

	id := g.LocalID()
	assert.True(t, IsLocalID(id))
	assert.False(t, IsLocalID(g.Generate()))
	assert.False(t, IsLocalID("42"))
}
