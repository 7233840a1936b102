// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/internal/store"
	"github.com/MKhiriev/carehome-sync/models"
)

func serve(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRoutes_EntityLifecycle(t *testing.T) {
	router := newTestHandler(newMemoryEntityService(), "").Init()

	rr := serve(t, router, http.MethodPost, "/api/home-1/carePlans", `{"title":"A"}`,
		map[string]string{models.HeaderIdempotencyKey: "key-1"})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, rr.Header().Get(models.HeaderIdempotentReplay))

	var created models.Entity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "srv-1", created.ID)
	assert.JSONEq(t, `{"title":"A"}`, string(created.Data))

	rr = serve(t, router, http.MethodGet, "/api/home-1/carePlans/srv-1", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(t, router, http.MethodPut, "/api/home-1/carePlans/srv-1", `{"title":"B"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"srv-1","data":{"title":"B"}}`, rr.Body.String())

	rr = serve(t, router, http.MethodDelete, "/api/home-1/carePlans/srv-1", "", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = serve(t, router, http.MethodGet, "/api/home-1/carePlans/srv-1", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.CodeNotFound, decodeAPIError(rr.Body.Bytes()).Code)
}

func TestRoutes_CreateReplay(t *testing.T) {
	router := newTestHandler(newMemoryEntityService(), "").Init()
	headers := map[string]string{models.HeaderIdempotencyKey: "key-1"}

	first := serve(t, router, http.MethodPost, "/api/home-1/updates", `{"text":"x"}`, headers)
	require.Equal(t, http.StatusCreated, first.Code)

	second := serve(t, router, http.MethodPost, "/api/home-1/updates", `{"text":"x"}`, headers)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(models.HeaderIdempotentReplay))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestRoutes_Errors(t *testing.T) {
	tests := []struct {
		name     string
		failWith error
		method   string
		path     string
		body     string
		status   int
		code     string
	}{
		{
			name:   "invalid json",
			method: http.MethodPost,
			path:   "/api/home-1/carePlans",
			body:   `{"title":`,
			status: http.StatusBadRequest,
			code:   models.CodeInvalidPayload,
		},
		{
			name:   "update of unknown entity",
			method: http.MethodPut,
			path:   "/api/home-1/carePlans/missing",
			body:   `{}`,
			status: http.StatusNotFound,
			code:   models.CodeNotFound,
		},
		{
			name:     "validation failure",
			failWith: fmt.Errorf("%w: invalid tenant id", service.ErrInvalidDataProvided),
			method:   http.MethodPost,
			path:     "/api/home-1/carePlans",
			body:     `{}`,
			status:   http.StatusBadRequest,
			code:     models.CodeInvalidPayload,
		},
		{
			name:     "conflict",
			failWith: fmt.Errorf("create entity: %w", store.ErrEntityConflict),
			method:   http.MethodPost,
			path:     "/api/home-1/carePlans",
			body:     `{}`,
			status:   http.StatusConflict,
			code:     models.CodeConflict,
		},
		{
			name:     "transient storage failure",
			failWith: fmt.Errorf("create entity: %w", store.ErrTransientStorage),
			method:   http.MethodPost,
			path:     "/api/home-1/carePlans",
			body:     `{}`,
			status:   http.StatusServiceUnavailable,
			code:     models.CodeInternal,
		},
		{
			name:     "unclassified failure hides details",
			failWith: errDatabaseDown,
			method:   http.MethodPost,
			path:     "/api/home-1/carePlans",
			body:     `{}`,
			status:   http.StatusInternalServerError,
			code:     models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := newMemoryEntityService()
			entities.failWith = tt.failWith
			router := newTestHandler(entities, "").Init()

			rr := serve(t, router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.status, rr.Code)

			apiErr := decodeAPIError(rr.Body.Bytes())
			assert.Equal(t, tt.code, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
			assert.NotContains(t, apiErr.Message, "database down")
		})
	}
}

func TestRoutes_BodyTooLarge(t *testing.T) {
	router := newTestHandler(newMemoryEntityService(), "").Init()

	body := `{"blob":"` + strings.Repeat("x", maxBodySize) + `"}`
	rr := serve(t, router, http.MethodPost, "/api/home-1/carePlans", body, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestRoutes_HealthAndVersion(t *testing.T) {
	h := newTestHandler(newMemoryEntityService(), "")
	router := h.Init()

	rr := serve(t, router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = serve(t, router, http.MethodGet, "/api/version", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1.2.3", rr.Body.String())
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))

	h.services.HealthService = &stubHealthService{err: errDatabaseDown}
	rr = serve(t, router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRoutes_UnknownRouteAndMethod(t *testing.T) {
	router := newTestHandler(newMemoryEntityService(), "").Init()

	rr := serve(t, router, http.MethodGet, "/nothing/here", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.CodeNotFound, decodeAPIError(rr.Body.Bytes()).Code)

	rr = serve(t, router, http.MethodPatch, "/api/home-1/carePlans/P1", `{}`, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, PUT, DELETE", rr.Header().Get("Allow"))

	rr = serve(t, router, http.MethodGet, "/api/home-1/carePlans", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))
}

func TestRoutes_TraceIDEchoed(t *testing.T) {
	router := newTestHandler(newMemoryEntityService(), "").Init()

	rr := serve(t, router, http.MethodGet, "/api/health", "", map[string]string{models.HeaderTraceID: "cycle-42"})
	assert.Equal(t, "cycle-42", rr.Header().Get(models.HeaderTraceID))

	rr = serve(t, router, http.MethodGet, "/api/health", "", nil)
	assert.NotEmpty(t, rr.Header().Get(models.HeaderTraceID))
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFromError(fmt.Errorf("get: %w", store.ErrEntityNotFound)))
	assert.Equal(t, http.StatusConflict, statusFromError(store.ErrIdempotencyKeyConflict))
	assert.Equal(t, http.StatusBadRequest, statusFromError(ErrIntegrityCheckFailed))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(store.ErrScanningRow))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errDatabaseDown))
}
