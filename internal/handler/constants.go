// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot     = "/"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteLanguage = "/language"
	RouteHealth   = "/health"
	RouteRobots   = "/robots.txt"

	RouteDashboard   = "/dashboard"
	RouteConnections = "/connections"
	RouteSchedule    = "/schedule"
	RouteHadiths     = "/admin/hadiths"
	RouteHistory     = "/history"
	RoutePreviewCard = "/preview/card.png"

	RouteParamPlatform = "/{platform}"
	RouteParamID       = "/{id}"

	RouteAPI = "/api/v1"
)

// Page template names.
const (
	pageLogin       = "auth/login"
	pageDashboard   = "pages/dashboard"
	pageConnections = "pages/connections"
	pageSchedule    = "pages/schedule"
	pageHadiths     = "pages/hadiths"
	pageHistory     = "pages/history"
)
