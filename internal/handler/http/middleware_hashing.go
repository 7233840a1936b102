// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/utils"
)

// withHashCheck verifies the HashSHA256 header against the raw body when a
// hash key is configured. Without a key every request passes.
func (h *Handler) withHashCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.hasher.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				err = ErrBodyTooLarge
			}
			writeError(w, r, "*Handler.withHashCheck", err)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		sum := r.Header.Get(utils.HashHeader)
		if sum == "" || !h.hasher.Verify(body, sum) {
			log.Error().
				Str("func", "*Handler.withHashCheck").
				Str("hash from request", sum).
				Msg("hashes are not equal")
			writeError(w, r, "*Handler.withHashCheck", ErrIntegrityCheckFailed)
			return
		}

		log.Debug().Str("func", "*Handler.withHashCheck").Msg("hashes are equal")

		next.ServeHTTP(w, r)
	})
}
