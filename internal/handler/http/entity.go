// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

const maxBodySize = 1 << 20

func (h *Handler) createEntity(w http.ResponseWriter, r *http.Request) {
	data, err := readJSONBody(w, r)
	if err != nil {
		writeError(w, r, "*Handler.createEntity", err)
		return
	}

	req := models.EntityRequest{
		TenantID:       chi.URLParam(r, "tenant"),
		Collection:     chi.URLParam(r, "collection"),
		IdempotencyKey: r.Header.Get(models.HeaderIdempotencyKey),
		Data:           data,
	}

	entity, replayed, err := h.services.EntityService.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, "*Handler.createEntity", err)
		return
	}

	status := http.StatusCreated
	if replayed {
		w.Header().Set(models.HeaderIdempotentReplay, "true")
		status = http.StatusOK

		logger.FromRequest(r).Info().
			Str("func", "*Handler.createEntity").
			Str("tenant", req.TenantID).
			Str("collection", req.Collection).
			Str("id", entity.ID).
			Msg("create replayed from idempotency key")
	}

	utils.WriteJSON(w, entity, status)
}

func (h *Handler) getEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := h.services.EntityService.Get(r.Context(),
		chi.URLParam(r, "tenant"),
		chi.URLParam(r, "collection"),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		writeError(w, r, "*Handler.getEntity", err)
		return
	}

	utils.WriteJSON(w, entity, http.StatusOK)
}

func (h *Handler) updateEntity(w http.ResponseWriter, r *http.Request) {
	data, err := readJSONBody(w, r)
	if err != nil {
		writeError(w, r, "*Handler.updateEntity", err)
		return
	}

	entity, err := h.services.EntityService.Update(r.Context(), models.EntityRequest{
		TenantID:   chi.URLParam(r, "tenant"),
		Collection: chi.URLParam(r, "collection"),
		ID:         chi.URLParam(r, "id"),
		Data:       data,
	})
	if err != nil {
		writeError(w, r, "*Handler.updateEntity", err)
		return
	}

	utils.WriteJSON(w, entity, http.StatusOK)
}

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request) {
	err := h.services.EntityService.Delete(r.Context(),
		chi.URLParam(r, "tenant"),
		chi.URLParam(r, "collection"),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		writeError(w, r, "*Handler.deleteEntity", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func readJSONBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}
	return body, nil
}
