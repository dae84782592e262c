// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-org-site/internal/utils"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler. It
// answers 404 with the JSON envelope instead of chi's 405, so a wrong method
// does not reveal that a path exists. Patterns are compared to the raw path,
// so parameterised routes always get the 404.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, route := range router.Routes() {
			if route.Pattern != r.URL.Path {
				continue
			}
			if _, ok := route.Handlers[r.Method]; ok {
				router.ServeHTTP(w, r)
				return
			}
			break
		}

		utils.WriteResponse(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), nil)
	}
}
