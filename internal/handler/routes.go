// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/handler/api"
	"github.com/olegiv/noorshare/internal/middleware"
	"github.com/olegiv/noorshare/internal/render"
	"github.com/olegiv/noorshare/internal/version"
)

// API rate limit per client IP.
const (
	apiRateLimit = 10.0
	apiRateBurst = 30
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	App      *app.State
	Sessions *scs.SessionManager
	Renderer *render.Renderer
	Guard    *middleware.LoginProtection
	Version  version.Info
	// Static is served under /static/.
	Static fs.FS
	Logger *slog.Logger
	// RequestLog enables chi's request logger.
	RequestLog bool
}

// NewRouter builds the HTTP handler for the dashboard and the JSON API.
func NewRouter(cfg RouterConfig) http.Handler {
	state := cfg.App
	logger := cfg.Logger
	if logger == nil {
		logger = state.Logger
	}
	guard := cfg.Guard
	if guard == nil {
		guard = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	}
	p := pages{renderer: cfg.Renderer, sessions: cfg.Sessions, logger: logger}

	authHandler := NewAuthHandler(p, state, guard)
	dashboardHandler := NewDashboardHandler(p, state)
	connectionsHandler := NewConnectionsHandler(p, state)
	scheduleHandler := NewScheduleHandler(p, state)
	hadithsHandler := NewHadithsHandler(p, state)
	historyHandler := NewHistoryHandler(p, state)
	healthHandler := NewHealthHandler(state.DB, cfg.Version, state.CacheKind)
	apiHandler := api.NewHandler(state)

	isDev := state.Config.IsDevelopment()
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(state.Config.SessionSecret), isDev, state.Config.ServerAddr()))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(isDev)))

	r.Get(RouteHealth, healthHandler.Health)
	r.Get(RouteRobots, Robots)
	if cfg.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(cfg.Static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.LoadAndSave)
		r.Use(middleware.Language(cfg.Sessions))
		r.Use(csrfMiddleware)

		r.Get(RouteLogin, authHandler.LoginForm)
		r.With(guard.Middleware()).Post(RouteLogin, authHandler.Login)
		r.Post(RouteLogout, authHandler.Logout)
		r.Post(RouteLanguage, authHandler.SetLanguage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(cfg.Sessions, state.Queries))

			r.Get(RouteRoot, func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, RouteConnections, http.StatusSeeOther)
			})
			r.Get(RouteDashboard, dashboardHandler.Dashboard)

			r.Get(RouteConnections, connectionsHandler.Page)
			r.Post(RouteConnections+"/next", connectionsHandler.Next)
			r.Post(RouteConnections+RouteParamPlatform+"/toggle", connectionsHandler.Toggle)
			r.Post(RouteConnections+RouteParamPlatform+"/cancel", connectionsHandler.Cancel)
			r.Post(RouteConnections+RouteParamPlatform+"/sync", connectionsHandler.Sync)
			r.Get(RoutePreviewCard, connectionsHandler.Card)

			r.Get(RouteSchedule, scheduleHandler.Page)
			r.Post(RouteSchedule, scheduleHandler.Save)
			r.Post(RouteSchedule+"/suggest", scheduleHandler.Suggest)

			r.Get(RouteHadiths, hadithsHandler.List)
			r.Post(RouteHadiths, hadithsHandler.Create)
			r.Post(RouteHadiths+RouteParamID+"/delete", hadithsHandler.Delete)

			r.Get(RouteHistory, historyHandler.List)
			r.Post(RouteHistory+RouteParamID+"/caption", historyHandler.Regenerate)
		})

		r.Route(RouteAPI, func(r chi.Router) {
			r.Use(middleware.NewRateLimiter(apiRateLimit, apiRateBurst).Middleware())
			r.Use(middleware.RequireAPIUser(cfg.Sessions, state.Queries))
			apiHandler.Routes(r)
		})
	})

	return r
}
