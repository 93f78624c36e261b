// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/schedule"
)

// ScheduleResponse is the schedule with its next fire time.
type ScheduleResponse struct {
	schedule.Settings
	NextRun *time.Time `json:"next_run,omitempty"`
}

func (h *Handler) scheduleResponse() ScheduleResponse {
	resp := ScheduleResponse{Settings: h.app.Scheduler.Settings()}
	if next, ok := h.app.Scheduler.NextRun(h.app.Now()); ok {
		resp.NextRun = &next
	}
	return resp
}

// GetSchedule handles GET /api/v1/schedule.
func (h *Handler) GetSchedule(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.scheduleResponse(), nil)
}

// UpdateSchedule handles PUT /api/v1/schedule.
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var in schedule.SettingsInput
	if !decode(w, r, &in) {
		return
	}
	settings, errs := in.Validate()
	if errs != nil {
		WriteValidationError(w, errs)
		return
	}
	if err := h.app.UpdateSchedule(r.Context(), settings); err != nil {
		h.writeDomainError(w, err, "Failed to save schedule")
		return
	}
	WriteSuccess(w, h.scheduleResponse(), nil)
}

// CaptionRequest asks for a caption of one Hadith on one platform.
type CaptionRequest struct {
	HadithID string `json:"hadith_id"`
	Platform string `json:"platform"`
	// Fresh skips the cache.
	Fresh bool `json:"fresh"`
}

// CaptionResponse carries the generated caption.
type CaptionResponse struct {
	HadithID string         `json:"hadith_id"`
	Platform model.Platform `json:"platform"`
	Caption  string         `json:"caption"`
}

// Caption handles POST /api/v1/captions. Generation never fails: provider
// errors come back as the fallback caption.
func (h *Handler) Caption(w http.ResponseWriter, r *http.Request) {
	var req CaptionRequest
	if !decode(w, r, &req) {
		return
	}

	errs := model.ValidationErrors{}
	platform, err := model.ParsePlatform(req.Platform)
	if err != nil {
		errs["platform"] = "Unknown platform"
	}
	hadith, ok := h.app.Hadiths.Get(req.HadithID)
	if !ok {
		errs["hadith_id"] = "Unknown hadith"
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	var text string
	if req.Fresh {
		text = h.app.Captions.Regenerate(r.Context(), hadith, string(platform))
	} else {
		text = h.app.Captions.Caption(r.Context(), hadith, string(platform))
	}
	WriteSuccess(w, CaptionResponse{HadithID: hadith.ID, Platform: platform, Caption: text}, nil)
}

// RegenerateCaption handles POST /api/v1/posts/{id}/caption.
func (h *Handler) RegenerateCaption(w http.ResponseWriter, r *http.Request) {
	post, err := h.app.RegenerateCaption(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "Failed to regenerate caption")
		return
	}
	WriteSuccess(w, post, nil)
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.app.Stats(), nil)
}

// ListPosts handles GET /api/v1/posts, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, _ *http.Request) {
	posts := h.app.History.List()
	WriteSuccess(w, posts, &Meta{Total: len(posts)})
}
