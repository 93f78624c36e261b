// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/noorshare/internal/i18n"
	"github.com/olegiv/noorshare/internal/middleware"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/render"
	"github.com/olegiv/noorshare/internal/session"
)

// pages carries what every HTML handler needs.
type pages struct {
	renderer *render.Renderer
	sessions *scs.SessionManager
	logger   *slog.Logger
}

// flashAndRedirect stores a translated flash message and redirects with 303.
func (p pages) flashAndRedirect(w http.ResponseWriter, r *http.Request, url, key string, args ...any) {
	session.SetFlash(r.Context(), p.sessions, i18n.T(middleware.GetLang(r), key, args...))
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// render writes page name or logs and answers 500.
func (p pages) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	err := p.renderer.RenderStatus(w, r, status, name, render.TemplateData{Title: title, Data: data})
	if err != nil {
		p.internalError(w, "rendering page failed", "page", name, "error", err)
	}
}

// internalError logs at error level and answers 500.
func (p pages) internalError(w http.ResponseWriter, msg string, args ...any) {
	p.logger.Error(msg, append([]any{"category", model.EventCategorySystem}, args...)...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// parseForm parses the request body, answering 400 on failure.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return false
	}
	return true
}
