// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/olegiv/noorshare/internal/version"
)

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	db        *sql.DB
	version   version.Info
	cacheKind string
	startTime time.Time
}

// NewHealthHandler creates the handler.
func NewHealthHandler(db *sql.DB, v version.Info, cacheKind string) *HealthHandler {
	return &HealthHandler{db: db, version: v, cacheKind: cacheKind, startTime: time.Now()}
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks"`
	Since   time.Time         `json:"since"`
	Cache   string            `json:"cache"`
}

// Health handles GET /health. It answers 503 when the database is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:  "ok",
		Version: h.version.String(),
		Uptime:  humanize.RelTime(h.startTime, time.Now(), "", ""),
		Since:   h.startTime.UTC(),
		Cache:   h.cacheKind,
		Checks:  map[string]string{"database": "ok"},
	}
	code := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		status.Status = "unavailable"
		status.Checks["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
