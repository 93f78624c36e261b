// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API over the dashboard state.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/connection"
	"github.com/olegiv/noorshare/internal/content"
	"github.com/olegiv/noorshare/internal/middleware"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/schedule"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 64 << 10

// Handler serves /api/v1.
type Handler struct {
	app *app.State
}

// NewHandler creates a new API handler.
func NewHandler(state *app.State) *Handler {
	return &Handler{app: state}
}

// Routes mounts the API endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/hadiths", h.ListHadiths)
	r.Post("/hadiths", h.CreateHadith)
	r.Delete("/hadiths/{id}", h.DeleteHadith)

	r.Get("/preview", h.Preview)
	r.Post("/preview/next", h.NextPreview)

	r.Get("/accounts", h.ListAccounts)
	r.Post("/accounts/{platform}/toggle", h.ToggleAccount)
	r.Delete("/accounts/{platform}/toggle", h.CancelToggle)
	r.Post("/accounts/{platform}/sync", h.SyncAccount)

	r.Get("/schedule", h.GetSchedule)
	r.Put("/schedule", h.UpdateSchedule)

	r.Post("/captions", h.Caption)
	r.Post("/posts/{id}/caption", h.RegenerateCaption)
	r.Get("/stats", h.Stats)
	r.Get("/posts", h.ListPosts)
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries list metadata.
type Meta struct {
	Total int `json:"total"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	middleware.WriteAPIError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// writeDomainError maps component errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, msg string) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		WriteValidationError(w, verrs)
	case errors.Is(err, content.ErrNotFound), errors.Is(err, schedule.ErrPostNotFound),
		errors.Is(err, connection.ErrUnknownPlatform):
		WriteNotFound(w, err.Error())
	case errors.Is(err, content.ErrDuplicateID), errors.Is(err, connection.ErrTogglePending),
		errors.Is(err, connection.ErrNotConnected), errors.Is(err, connection.ErrNoPendingToggle):
		WriteConflict(w, err.Error())
	default:
		h.app.Logger.Error(msg, "category", model.EventCategorySystem, "error", err)
		WriteInternalError(w, msg)
	}
}

// decode reads a JSON body into dst, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			WriteBadRequest(w, "Request body is empty")
		} else {
			WriteBadRequest(w, "Invalid JSON: "+err.Error())
		}
		return false
	}
	return true
}

// platformParam parses {platform}, answering 404 for unknown names.
func platformParam(w http.ResponseWriter, r *http.Request) (model.Platform, bool) {
	p, err := model.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		WriteNotFound(w, err.Error())
		return "", false
	}
	return p, true
}
