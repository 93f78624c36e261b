// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/card"
	"github.com/olegiv/noorshare/internal/connection"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/preview"
)

// ConnectionsHandler serves the preview and the account toggles.
type ConnectionsHandler struct {
	pages
	app *app.State
}

// NewConnectionsHandler creates the handler.
func NewConnectionsHandler(p pages, state *app.State) *ConnectionsHandler {
	return &ConnectionsHandler{pages: p, app: state}
}

// AccountView is one account row.
type AccountView struct {
	connection.Status
	Slug      string
	SyncLabel string
}

// ConnectionsData is the connections page state.
type ConnectionsData struct {
	Preview  preview.Snapshot
	Layout   preview.Layout
	Accounts []AccountView
	// Pending makes the page poll until every toggle has settled.
	Pending bool
}

// Page handles GET /connections.
func (h *ConnectionsHandler) Page(w http.ResponseWriter, r *http.Request) {
	now := h.app.Now()
	data := ConnectionsData{
		Preview: h.app.Preview.Current(),
		Layout:  preview.ParseLayout(r.URL.Query().Get("layout")),
	}
	for _, st := range h.app.Connections.Accounts() {
		data.Accounts = append(data.Accounts, AccountView{
			Status:    st,
			Slug:      st.Platform.Slug(),
			SyncLabel: connection.SyncLabel(st.LastSync, now),
		})
		data.Pending = data.Pending || st.Pending()
	}
	h.render(w, r, http.StatusOK, pageConnections, "conn.title", data)
}

// Next handles POST /connections/next.
func (h *ConnectionsHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.app.Preview.Next()
	http.Redirect(w, r, h.back(r), http.StatusSeeOther)
}

// Toggle handles POST /connections/{platform}/toggle. A repeated toggle while
// one is pending is ignored.
func (h *ConnectionsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	p, ok := h.platform(w, r)
	if !ok {
		return
	}
	if _, err := h.app.Connections.Toggle(p); err != nil && !errors.Is(err, connection.ErrTogglePending) {
		h.internalError(w, "toggle failed", "platform", p, "error", err)
		return
	}
	http.Redirect(w, r, h.back(r), http.StatusSeeOther)
}

// Cancel handles POST /connections/{platform}/cancel.
func (h *ConnectionsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := h.platform(w, r)
	if !ok {
		return
	}
	if err := h.app.Connections.Cancel(p); err != nil && !errors.Is(err, connection.ErrNoPendingToggle) {
		h.internalError(w, "cancel failed", "platform", p, "error", err)
		return
	}
	http.Redirect(w, r, h.back(r), http.StatusSeeOther)
}

// Sync handles POST /connections/{platform}/sync.
func (h *ConnectionsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	p, ok := h.platform(w, r)
	if !ok {
		return
	}
	if _, err := h.app.Connections.Sync(p); err != nil && !errors.Is(err, connection.ErrNotConnected) {
		h.internalError(w, "sync failed", "platform", p, "error", err)
		return
	}
	http.Redirect(w, r, h.back(r), http.StatusSeeOther)
}

// Card handles GET /preview/card.png?layout=portrait|landscape.
func (h *ConnectionsHandler) Card(w http.ResponseWriter, r *http.Request) {
	layout := preview.ParseLayout(r.URL.Query().Get("layout"))

	var buf bytes.Buffer
	if err := card.Render(&buf, h.app.Preview.Current(), layout); err != nil {
		h.internalError(w, "rendering card failed", "error", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *ConnectionsHandler) platform(w http.ResponseWriter, r *http.Request) (model.Platform, bool) {
	p, err := model.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		http.NotFound(w, r)
		return "", false
	}
	return p, true
}

// back returns to the connections page, keeping the chosen layout.
func (h *ConnectionsHandler) back(r *http.Request) string {
	layout := preview.ParseLayout(r.FormValue("layout"))
	if layout == preview.LayoutPortrait {
		return RouteConnections
	}
	return RouteConnections + "?" + url.Values{"layout": {string(layout)}}.Encode()
}
