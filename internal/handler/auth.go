// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/auth"
	"github.com/olegiv/noorshare/internal/i18n"
	"github.com/olegiv/noorshare/internal/middleware"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/session"
)

// AuthHandler serves login, logout and the language switch.
type AuthHandler struct {
	pages
	app   *app.State
	guard *middleware.LoginProtection
}

// NewAuthHandler creates the handler.
func NewAuthHandler(p pages, state *app.State, guard *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{pages: p, app: state, guard: guard}
}

// LoginData is the login form state.
type LoginData struct {
	Email string
	Error string
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.UserID(r.Context(), h.sessions) != 0 {
		http.Redirect(w, r, RouteConnections, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, pageLogin, "login.title", LoginData{})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	ctx := r.Context()
	lang := middleware.GetLang(r)
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	fail := func(status int, key string) {
		h.render(w, r, status, pageLogin, "login.title", LoginData{Email: email, Error: i18n.T(lang, key)})
	}

	if locked, _ := h.guard.IsLocked(email); locked {
		fail(http.StatusTooManyRequests, "login.rate_limited")
		return
	}

	user, err := auth.Authenticate(ctx, h.app.Queries, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.guard.RecordFailure(email)
		h.logger.Warn("login failed", "category", model.EventCategoryAuth, "email", email, "ip", middleware.ClientIP(r))
		fail(http.StatusUnauthorized, "login.failed")
		return
	}
	if err != nil {
		h.internalError(w, "login lookup failed", "error", err)
		return
	}

	h.guard.RecordSuccess(email)
	if err := session.Login(ctx, h.sessions, user.ID, r.PostFormValue("remember") != ""); err != nil {
		h.internalError(w, "renewing session failed", "error", err)
		return
	}
	if err := h.app.Queries.UpdateUserLastLogin(ctx, user.ID, h.app.Now()); err != nil {
		h.logger.Warn("recording last login failed", "category", model.EventCategoryAuth, "error", err)
	}
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			_ = h.app.Queries.UpdateUserPassword(ctx, user.ID, hash)
		}
	}

	h.app.Events.LogInfo(ctx, model.EventCategoryAuth, "login succeeded", map[string]any{
		"email": user.Email, "ip": middleware.ClientIP(r),
	})
	http.Redirect(w, r, RouteConnections, http.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(r.Context(), h.sessions); err != nil {
		h.internalError(w, "destroying session failed", "error", err)
		return
	}
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

// SetLanguage handles POST /language and returns to the referring page.
func (h *AuthHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	lang := r.PostFormValue("lang")
	if i18n.IsSupported(lang) {
		middleware.Remember(r.Context(), w, h.sessions, strings.ToLower(lang))
	}

	back := r.PostFormValue("return")
	if back == "" || !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = RouteConnections
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
