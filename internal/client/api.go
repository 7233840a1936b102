// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/carehome-sync/internal/logger"
	"github.com/MKhiriev/carehome-sync/internal/service"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 5 * time.Second
)

var errInvalidJSON = errors.New("invalid JSON was passed")

// API is the agent's loopback HTTP surface. The host application talks to
// it instead of the remote API, so every write is accepted offline.
type API struct {
	entities service.ClientEntityService
	address  string
	upgrader websocket.Upgrader

	mu   sync.Mutex
	addr net.Addr

	logger *logger.Logger
}

func NewAPI(entities service.ClientEntityService, address string, logger *logger.Logger) *API {
	return &API{
		entities: entities,
		address:  address,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// Routes builds the local router. Static sync routes win over the
// {collection} pattern, so "sync" cannot be used as a collection name.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, a.withRequestLogger)

	r.Route("/local", func(r chi.Router) {
		r.Post("/sync", a.forceSync)
		r.Get("/sync/status", a.syncStatus)
		r.Get("/sync/pending", a.pendingCount)
		r.Get("/sync/failed", a.listFailed)
		r.Delete("/sync/mutations/{id}", a.discardMutation)
		r.Get("/sync/ws", a.statusStream)

		r.Post("/{collection}", a.createEntity)
		r.Get("/{collection}/{id}", a.getEntity)
		r.Put("/{collection}/{id}", a.updateEntity)
		r.Delete("/{collection}/{id}", a.deleteEntity)
	})

	return r
}

// Run serves the local API until ctx is cancelled. Request contexts derive
// from ctx so open status streams end with it.
func (a *API) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.address, err)
	}

	a.mu.Lock()
	a.addr = lis.Addr()
	a.mu.Unlock()

	srv := &http.Server{
		Handler:           a.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	a.logger.Info().Str("address", lis.Addr().String()).Msg("Launching local API")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	a.logger.Info().Msg("local API Shutdown")
	return srv.Shutdown(shutdownCtx)
}

// Addr is the bound address once Run has started listening.
func (a *API) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr
}

func (a *API) withRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()

		l := a.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", requestID)
		})

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(l.WithContext(r.Context())))

		l.Debug().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Send()
	})
}

func (a *API) createEntity(w http.ResponseWriter, r *http.Request) {
	data, err := readJSONBody(w, r)
	if err != nil {
		writeError(w, r, "*API.createEntity", err)
		return
	}

	entity, err := a.entities.CreateEntity(r.Context(), chi.URLParam(r, "collection"), data)
	if err != nil {
		writeError(w, r, "*API.createEntity", err)
		return
	}

	utils.WriteJSON(w, entity, http.StatusCreated)
}

func (a *API) getEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := a.entities.GetEntity(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "*API.getEntity", err)
		return
	}

	utils.WriteJSON(w, entity, http.StatusOK)
}

func (a *API) updateEntity(w http.ResponseWriter, r *http.Request) {
	data, err := readJSONBody(w, r)
	if err != nil {
		writeError(w, r, "*API.updateEntity", err)
		return
	}

	entity, err := a.entities.UpdateEntity(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"), data)
	if err != nil {
		writeError(w, r, "*API.updateEntity", err)
		return
	}

	utils.WriteJSON(w, entity, http.StatusOK)
}

func (a *API) deleteEntity(w http.ResponseWriter, r *http.Request) {
	if err := a.entities.DeleteEntity(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "*API.deleteEntity", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) syncStatus(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, a.entities.GetSyncStatus(), http.StatusOK)
}

func (a *API) pendingCount(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")

	count, err := a.entities.GetPendingChangesCount(r.Context(), collection)
	if err != nil {
		writeError(w, r, "*API.pendingCount", err)
		return
	}

	utils.WriteJSON(w, models.PendingCount{Collection: collection, Count: count}, http.StatusOK)
}

func (a *API) forceSync(w http.ResponseWriter, r *http.Request) {
	res, err := a.entities.ForceSync(r.Context())
	if err != nil {
		writeError(w, r, "*API.forceSync", err)
		return
	}

	utils.WriteJSON(w, res, http.StatusOK)
}

func (a *API) listFailed(w http.ResponseWriter, r *http.Request) {
	failed, err := a.entities.ListFailed(r.Context(), r.URL.Query().Get("collection"))
	if err != nil {
		writeError(w, r, "*API.listFailed", err)
		return
	}
	if failed == nil {
		failed = []models.PendingMutation{}
	}

	utils.WriteJSON(w, failed, http.StatusOK)
}

func (a *API) discardMutation(w http.ResponseWriter, r *http.Request) {
	if err := a.entities.DiscardMutation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "*API.discardMutation", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func readJSONBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	return body, nil
}
