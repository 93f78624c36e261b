// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/noorshare/internal/analytics"
	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/model"
)

// eventLogSize is how many log entries the dashboard lists.
const eventLogSize = 10

// DashboardHandler serves the analytics overview.
type DashboardHandler struct {
	pages
	app *app.State
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(p pages, state *app.State) *DashboardHandler {
	return &DashboardHandler{pages: p, app: state}
}

// DashboardData is the dashboard page state.
type DashboardData struct {
	Stats     analytics.Stats
	Platforms []model.Platform
	Events    []model.Event
}

// Dashboard handles GET /dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	events, err := h.app.Events.Recent(r.Context(), eventLogSize)
	if err != nil {
		h.internalError(w, "listing events failed", "error", err)
		return
	}
	h.render(w, r, http.StatusOK, pageDashboard, "dash.title", DashboardData{
		Stats:     h.app.Stats(),
		Platforms: model.Platforms,
		Events:    events,
	})
}
