// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// HashHeader carries the hex HMAC-SHA256 of the request body.
const HashHeader = "HashSHA256"

// Hasher computes HMAC-SHA256 digests with a fixed key. hash.Hash values are
// pooled because they are not safe for concurrent use and are relatively
// expensive to allocate.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a Hasher keyed with hashKey, or nil if hashKey is empty.
// A nil *Hasher is valid and disables hashing.
func NewHasher(hashKey string) *Hasher {
	if hashKey == "" {
		return nil
	}

	key := []byte(hashKey)
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Enabled reports whether h has a key.
func (h *Hasher) Enabled() bool {
	return h != nil
}

// Hash returns the HMAC-SHA256 of data.
func (h *Hasher) Hash(data []byte) []byte {
	if h == nil {
		return nil
	}

	mac := h.pool.Get().(hash.Hash)
	mac.Reset()

	mac.Write(data)
	sum := mac.Sum(nil)

	mac.Reset()
	h.pool.Put(mac)

	return sum
}

// HashHex returns the hex-encoded HMAC-SHA256 of data.
func (h *Hasher) HashHex(data []byte) string {
	if h == nil {
		return ""
	}
	return hex.EncodeToString(h.Hash(data))
}

// Verify reports whether hexSum is the HMAC of data in constant time.
func (h *Hasher) Verify(data []byte, hexSum string) bool {
	if h == nil {
		return true
	}
	want, err := hex.DecodeString(hexSum)
	if err != nil {
		return false
	}
	return hmac.Equal(h.Hash(data), want)
}
