// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
)

// ListAccounts handles GET /api/v1/accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts := h.app.Connections.Accounts()
	WriteSuccess(w, accounts, &Meta{Total: len(accounts)})
}

// ToggleAccount handles POST /api/v1/accounts/{platform}/toggle. The flip
// completes after the configured delay, so the response is 202 with the
// pending status.
func (h *Handler) ToggleAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := platformParam(w, r)
	if !ok {
		return
	}
	st, err := h.app.Connections.Toggle(p)
	if err != nil {
		h.writeDomainError(w, err, "Failed to toggle account")
		return
	}
	WriteJSON(w, http.StatusAccepted, Response{Data: st})
}

// CancelToggle handles DELETE /api/v1/accounts/{platform}/toggle.
func (h *Handler) CancelToggle(w http.ResponseWriter, r *http.Request) {
	p, ok := platformParam(w, r)
	if !ok {
		return
	}
	if err := h.app.Connections.Cancel(p); err != nil {
		h.writeDomainError(w, err, "Failed to cancel toggle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncAccount handles POST /api/v1/accounts/{platform}/sync.
func (h *Handler) SyncAccount(w http.ResponseWriter, r *http.Request) {
	p, ok := platformParam(w, r)
	if !ok {
		return
	}
	st, err := h.app.Connections.Sync(p)
	if err != nil {
		h.writeDomainError(w, err, "Failed to sync account")
		return
	}
	WriteSuccess(w, st, nil)
}
