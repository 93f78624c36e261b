// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/caption"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/schedule"
)

// ScheduleHandler serves the posting schedule form.
type ScheduleHandler struct {
	pages
	app *app.State
}

// NewScheduleHandler creates the handler.
func NewScheduleHandler(p pages, state *app.State) *ScheduleHandler {
	return &ScheduleHandler{pages: p, app: state}
}

// ScheduleData is the schedule page state.
type ScheduleData struct {
	Form        schedule.SettingsInput
	Errors      model.ValidationErrors
	Frequencies []schedule.Frequency
	Platforms   []model.Platform
	NextRun     *time.Time
	Suggested   string
	CanSuggest  bool
}

// Selected reports whether p is ticked in the form.
func (d ScheduleData) Selected(p model.Platform) bool {
	for _, name := range d.Form.Platforms {
		if name == string(p) {
			return true
		}
	}
	return false
}

// Page handles GET /schedule. ?suggested=HH:MM prefills the time field.
func (h *ScheduleHandler) Page(w http.ResponseWriter, r *http.Request) {
	settings := h.app.Scheduler.Settings()
	data := h.data(inputFrom(settings), nil)
	if t, ok := caption.ParseTime(r.URL.Query().Get("suggested")); ok {
		data.Form.Time = t
		data.Suggested = t
	}
	h.render(w, r, http.StatusOK, pageSchedule, "sched.title", data)
}

// Save handles POST /schedule.
func (h *ScheduleHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := schedule.SettingsInput{
		Frequency: r.PostFormValue("frequency"),
		Time:      r.PostFormValue("time"),
		Platforms: r.PostForm["platforms"],
		Enabled:   r.PostFormValue("enabled") != "",
	}

	settings, errs := in.Validate()
	if errs != nil {
		h.render(w, r, http.StatusUnprocessableEntity, pageSchedule, "sched.title", h.data(in, errs))
		return
	}
	if err := h.app.UpdateSchedule(r.Context(), settings); err != nil {
		h.internalError(w, "saving schedule failed", "error", err)
		return
	}
	h.flashAndRedirect(w, r, RouteSchedule, "sched.saved")
}

// Suggest handles POST /schedule/suggest.
func (h *ScheduleHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	t := h.app.Captions.SuggestTime(r.Context())
	h.flashAndRedirect(w, r, RouteSchedule+"?"+url.Values{"suggested": {t}}.Encode(), "sched.suggested", t)
}

func (h *ScheduleHandler) data(in schedule.SettingsInput, errs model.ValidationErrors) ScheduleData {
	d := ScheduleData{
		Form:        in,
		Errors:      errs,
		Frequencies: schedule.Frequencies,
		Platforms:   model.Platforms,
		CanSuggest:  h.app.Captions.Enabled(),
	}
	if next, ok := h.app.Scheduler.NextRun(h.app.Now()); ok {
		d.NextRun = &next
	}
	return d
}

func inputFrom(s schedule.Settings) schedule.SettingsInput {
	in := schedule.SettingsInput{
		Frequency: string(s.Frequency),
		Time:      s.Time,
		Enabled:   s.Enabled,
	}
	for _, p := range s.Platforms {
		in.Platforms = append(in.Platforms, string(p))
	}
	return in
}
