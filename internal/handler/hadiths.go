// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/content"
	"github.com/olegiv/noorshare/internal/model"
)

// HadithsHandler serves the collection admin page.
type HadithsHandler struct {
	pages
	app *app.State
}

// NewHadithsHandler creates the handler.
func NewHadithsHandler(p pages, state *app.State) *HadithsHandler {
	return &HadithsHandler{pages: p, app: state}
}

// HadithsData is the admin page state.
type HadithsData struct {
	Items  []model.Hadith
	Form   content.HadithInput
	Errors model.ValidationErrors
	Grades []string
}

// List handles GET /admin/hadiths.
func (h *HadithsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageHadiths, "admin.title", h.data(content.HadithInput{}, nil))
}

// Create handles POST /admin/hadiths.
func (h *HadithsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	in := content.HadithInput{
		ArabicText:  r.PostFormValue("arabic_text"),
		Translation: r.PostFormValue("translation"),
		Source:      r.PostFormValue("source"),
		Grade:       r.PostFormValue("grade"),
	}

	_, err := h.app.AddHadith(r.Context(), in)
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		in.Normalize()
		h.render(w, r, http.StatusUnprocessableEntity, pageHadiths, "admin.title", h.data(in, verrs))
		return
	case err != nil:
		h.internalError(w, "adding hadith failed", "error", err)
		return
	}
	h.flashAndRedirect(w, r, RouteHadiths, "admin.added")
}

// Delete handles POST /admin/hadiths/{id}/delete.
func (h *HadithsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := h.app.DeleteHadith(r.Context(), id)
	if err != nil {
		h.internalError(w, "deleting hadith failed", "error", err)
		return
	}
	if !removed {
		http.Redirect(w, r, RouteHadiths, http.StatusSeeOther)
		return
	}
	h.flashAndRedirect(w, r, RouteHadiths, "admin.deleted")
}

func (h *HadithsHandler) data(in content.HadithInput, errs model.ValidationErrors) HadithsData {
	return HadithsData{
		Items:  h.app.Hadiths.NewestFirst(),
		Form:   in,
		Errors: errs,
		Grades: model.KnownGrades,
	}
}
