// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/noorshare/internal/content"
)

// ListHadiths handles GET /api/v1/hadiths in rotation order.
func (h *Handler) ListHadiths(w http.ResponseWriter, _ *http.Request) {
	items := h.app.Hadiths.List()
	WriteSuccess(w, items, &Meta{Total: len(items)})
}

// CreateHadith handles POST /api/v1/hadiths.
func (h *Handler) CreateHadith(w http.ResponseWriter, r *http.Request) {
	var in content.HadithInput
	if !decode(w, r, &in) {
		return
	}
	created, err := h.app.AddHadith(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, err, "Failed to create hadith")
		return
	}
	WriteCreated(w, created)
}

// DeleteHadith handles DELETE /api/v1/hadiths/{id}.
func (h *Handler) DeleteHadith(w http.ResponseWriter, r *http.Request) {
	removed, err := h.app.DeleteHadith(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "Failed to delete hadith")
		return
	}
	if !removed {
		WriteNotFound(w, content.ErrNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles GET /api/v1/preview.
func (h *Handler) Preview(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.app.Preview.Current(), nil)
}

// NextPreview handles POST /api/v1/preview/next.
func (h *Handler) NextPreview(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.app.Preview.Next(), nil)
}
