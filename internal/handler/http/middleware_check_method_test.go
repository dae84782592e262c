// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newCheckMethodRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Post("/api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Delete("/api/users/{userID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))
	return router
}

func TestCheckHTTPMethod(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"registered GET", http.MethodGet, "/api/version", http.StatusOK},
		{"registered POST", http.MethodPost, "/api/auth/signin", http.StatusOK},
		{"wrong method on static route", http.MethodPost, "/api/version", http.StatusNotFound},
		{"GET on POST route", http.MethodGet, "/api/auth/signin", http.StatusNotFound},
		{"wrong method on param route", http.MethodGet, "/api/users/3", http.StatusNotFound},
		{"param route", http.MethodDelete, "/api/users/3", http.StatusOK},
	}

	router := newCheckMethodRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}
