// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealVersion byte = 1

var (
	// ErrOpenFailed is returned when a sealed blob cannot be authenticated.
	ErrOpenFailed = errors.New("crypto: unable to open sealed payload")
	// ErrEmptyKey is returned by NewSealer for an empty secret.
	ErrEmptyKey = errors.New("crypto: empty encryption key")
)

// hkdfInfo binds derived keys to this use so the same secret can be reused
// for other purposes without key overlap.
var hkdfInfo = []byte("carehome-sync/local-store/v1")

type xchachaSealer struct {
	secret []byte

	mu   sync.Mutex
	keys map[string][]byte
}

// NewSealer returns a [Sealer] backed by XChaCha20-Poly1305. Per-tenant keys
// are derived from secret with HKDF-SHA256 using the tenant id as salt.
func NewSealer(secret string) (Sealer, error) {
	if secret == "" {
		return nil, ErrEmptyKey
	}

	return &xchachaSealer{
		secret: []byte(secret),
		keys:   make(map[string][]byte),
	}, nil
}

// NewNopSealer returns a [Sealer] that stores payloads as is. It is used
// when no encryption key is configured.
func NewNopSealer() Sealer {
	return nopSealer{}
}

func (s *xchachaSealer) Seal(tenantID string, plaintext []byte) ([]byte, error) {
	key, err := s.tenantKey(tenantID)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: init cipher: %w", err)
	}

	out := make([]byte, 1+aead.NonceSize(), 1+aead.NonceSize()+len(plaintext)+aead.Overhead())
	out[0] = sealVersion
	if _, err := io.ReadFull(rand.Reader, out[1:]); err != nil {
		return nil, fmt.Errorf("crypto: read nonce: %w", err)
	}

	// The version byte is authenticated as additional data.
	return aead.Seal(out, out[1:], plaintext, out[:1]), nil
}

func (s *xchachaSealer) Open(tenantID string, sealed []byte) ([]byte, error) {
	key, err := s.tenantKey(tenantID)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: init cipher: %w", err)
	}

	if len(sealed) < 1+aead.NonceSize()+aead.Overhead() || sealed[0] != sealVersion {
		return nil, ErrOpenFailed
	}

	nonce := sealed[1 : 1+aead.NonceSize()]
	plaintext, err := aead.Open(nil, nonce, sealed[1+aead.NonceSize():], sealed[:1])
	if err != nil {
		return nil, ErrOpenFailed
	}

	return plaintext, nil
}

func (s *xchachaSealer) tenantKey(tenantID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.keys[tenantID]; ok {
		return key, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	r := hkdf.New(sha256.New, s.secret, []byte(tenantID), hkdfInfo)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("crypto: derive key: %w", err)
	}
	s.keys[tenantID] = key

	return key, nil
}

type nopSealer struct{}

func (nopSealer) Seal(_ string, plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

func (nopSealer) Open(_ string, sealed []byte) ([]byte, error) {
	return sealed, nil
}
