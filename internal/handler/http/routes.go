// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	entitiesRoute = "/api/{tenant}/{collection}"
	entityRoute   = "/api/{tenant}/{collection}/{id}"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	router.Get("/api/health", h.health)
	router.Get("/api/version", h.getServerVersion)

	router.Group(func(r chi.Router) {
		r.Use(h.withHashCheck)
		r.Post(entitiesRoute, h.createEntity)
		r.Put(entityRoute, h.updateEntity)
	})
	router.Get(entityRoute, h.getEntity)
	router.Delete(entityRoute, h.deleteEntity)

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed(router))

	return router
}
