// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/carehome-sync/internal/app"
	"github.com/MKhiriev/carehome-sync/internal/utils"
	"github.com/MKhiriev/carehome-sync/models"
)

var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, models.CodeNotFound, app.MsgRouteNotFound)
}

// methodNotAllowed answers 405 with an Allow header listing the methods
// registered for the requested path.
func methodNotAllowed(router chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range routeMethods {
			if router.Match(chi.NewRouteContext(), method, r.URL.Path) {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) == 0 {
			notFound(w, r)
			return
		}

		w.Header().Set("Allow", strings.Join(allowed, ", "))
		utils.WriteError(w, http.StatusMethodNotAllowed, models.CodeInvalidPayload, app.MsgMethodNotAllowed+": "+r.Method)
	}
}
