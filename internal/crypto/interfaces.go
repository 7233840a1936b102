// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto seals entity and mutation payloads before they are written
// to the agent's local database.
package crypto

// Sealer encrypts and decrypts opaque payload bytes for a single tenant.
//
// Keys are derived per tenant from one configured secret, so a row copied
// from one tenant's database cannot be opened under another tenant id.
type Sealer interface {
	// Seal returns the ciphertext of plaintext in the form
	// version || nonce || ciphertext.
	Seal(tenantID string, plaintext []byte) ([]byte, error)

	// Open reverses Seal. It returns ErrOpenFailed if the blob was
	// tampered with or sealed under a different key or tenant.
	Open(tenantID string, sealed []byte) ([]byte, error)
}
