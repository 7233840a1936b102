// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

const (
	entitiesPath = "/api/{tenant}/{collection}"
	entityPath   = "/api/{tenant}/{collection}/{id}"
	healthPath   = "/api/health"
)

type httpRemoteAPI struct {
	client   *utils.HTTPClient
	tenantID string
	hasher   *utils.Hasher

	logger *logger.Logger
}

// NewHTTPRemoteAPI constructs the REST implementation of [RemoteAPI] for the
// tenant in appCfg. Every call is bounded by adapterCfg.RequestTimeout. When
// appCfg.HashKey is set, request bodies are signed in the HashSHA256 header.
func NewHTTPRemoteAPI(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteAPI, error) {
	baseURL, err := utils.NormalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}
	if appCfg.TenantID == "" {
		return nil, errors.New("empty tenant id")
	}

	return &httpRemoteAPI{
		client:   utils.NewHTTPClientWithBase(baseURL, adapterCfg.RequestTimeout),
		tenantID: appCfg.TenantID,
		hasher:   utils.NewHasher(appCfg.HashKey),
		logger:   logger,
	}, nil
}

func (h *httpRemoteAPI) Create(ctx context.Context, collection, idempotencyKey string, payload json.RawMessage) (models.Entity, error) {
	req := h.request(ctx, collection, payload)
	if idempotencyKey != "" {
		req.SetHeader(models.HeaderIdempotencyKey, idempotencyKey)
	}

	resp, err := req.Post(entitiesPath)
	if err != nil {
		return models.Entity{}, mapTransportError("create request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Entity{}, err
	}

	entity, err := decodeEntity(resp)
	if err != nil {
		return models.Entity{}, err
	}
	entity.Replayed = resp.Header().Get(models.HeaderIdempotentReplay) == "true"

	if entity.Replayed {
		logger.FromContext(ctx).Info().
			Str("func", "httpRemoteAPI.Create").
			Str("collection", collection).
			Str("id", entity.ID).
			Msg("server replayed an earlier create")
	}

	return entity, nil
}

func (h *httpRemoteAPI) Update(ctx context.Context, collection, id string, payload json.RawMessage) (models.Entity, error) {
	resp, err := h.request(ctx, collection, payload).
		SetPathParam("id", id).
		Put(entityPath)
	if err != nil {
		return models.Entity{}, mapTransportError("update request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Entity{}, err
	}

	return decodeEntity(resp)
}

func (h *httpRemoteAPI) Delete(ctx context.Context, collection, id string) error {
	resp, err := h.request(ctx, collection, nil).
		SetPathParam("id", id).
		Delete(entityPath)
	if err != nil {
		return mapTransportError("delete request", err)
	}

	err = mapHTTPError(resp)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (h *httpRemoteAPI) Health(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(healthPath)
	if err != nil {
		return mapTransportError("health request", err)
	}

	return mapHTTPError(resp)
}

// request prepares a tenant-scoped request carrying body, signed when a hash
// key is configured.
func (h *httpRemoteAPI) request(ctx context.Context, collection string, body json.RawMessage) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"tenant":     h.tenantID,
			"collection": collection,
		})

	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody([]byte(body))
		if h.hasher.Enabled() {
			req.SetHeader(utils.HashHeader, h.hasher.HashHex(body))
		}
	}

	if traceID, ok := utils.GetTraceIDFromContext(ctx); ok {
		req.SetHeader(models.HeaderTraceID, traceID)
	}

	return req
}

func decodeEntity(resp *resty.Response) (models.Entity, error) {
	var entity models.Entity
	if err := json.Unmarshal(resp.Body(), &entity); err != nil {
		return models.Entity{}, fmt.Errorf("%w: decode entity response: %w", ErrNonRetryable, err)
	}
	if entity.ID == "" {
		return models.Entity{}, fmt.Errorf("%w: entity response without id", ErrNonRetryable)
	}
	return entity, nil
}
