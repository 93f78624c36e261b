// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/schedule"
	"github.com/olegiv/noorshare/internal/uikit"
)

const historyPerPage = 20

// HistoryHandler serves the post history.
type HistoryHandler struct {
	pages
	app *app.State
}

// NewHistoryHandler creates the handler.
func NewHistoryHandler(p pages, state *app.State) *HistoryHandler {
	return &HistoryHandler{pages: p, app: state}
}

// HistoryData is the history page state.
type HistoryData struct {
	Posts      []model.Post
	Pagination uikit.Pagination
}

// List handles GET /history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	posts := h.app.History.List()
	pager := uikit.Paginate(uikit.ParsePageParam(r), len(posts), historyPerPage, RouteHistory)
	start, end := pager.Bounds()
	h.render(w, r, http.StatusOK, pageHistory, "history.title", HistoryData{
		Posts:      posts[start:end],
		Pagination: pager,
	})
}

// Regenerate handles POST /history/{id}/caption.
func (h *HistoryHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.app.RegenerateCaption(r.Context(), id); err != nil {
		if errors.Is(err, schedule.ErrPostNotFound) {
			http.NotFound(w, r)
			return
		}
		h.internalError(w, "regenerating caption failed", "post_id", id, "error", err)
		return
	}
	http.Redirect(w, r, RouteHistory, http.StatusSeeOther)
}
