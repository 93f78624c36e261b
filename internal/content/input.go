// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/noorshare/internal/model"
)

// Field length limits for the admin form.
const (
	MaxTextLength   = 4000
	MaxSourceLength = 200
	MaxGradeLength  = 40
)

// textSanitizer strips every tag; hadith text is plain text everywhere it is rendered.
var textSanitizer = bluemonday.StrictPolicy()

// HadithInput is the typed payload of the "add hadith" form and API request.
type HadithInput struct {
	ArabicText  string `json:"arabic_text"`
	Translation string `json:"translation"`
	Source      string `json:"source"`
	Grade       string `json:"grade"`
}

// Normalize trims and sanitises every field in place.
func (in *HadithInput) Normalize() {
	in.ArabicText = cleanText(in.ArabicText)
	in.Translation = cleanText(in.Translation)
	in.Source = cleanText(in.Source)
	in.Grade = cleanText(in.Grade)
}

// Validate checks required fields and limits. It returns nil when the input is valid.
func (in HadithInput) Validate() model.ValidationErrors {
	errs := model.ValidationErrors{}

	requireText(errs, "arabic_text", in.ArabicText, "Please enter Arabic text", MaxTextLength)
	requireText(errs, "translation", in.Translation, "Please enter translation", MaxTextLength)
	requireText(errs, "source", in.Source, "Please enter source", MaxSourceLength)
	// Any label is accepted; model.KnownGrades only seeds the form suggestions.
	requireText(errs, "grade", in.Grade, "Please select a grade", MaxGradeLength)

	return errs.OrNil()
}

func requireText(errs model.ValidationErrors, field, value, missing string, limit int) {
	if value == "" {
		errs[field] = missing
		return
	}
	if utf8.RuneCountInString(value) > limit {
		errs[field] = "Too long"
	}
}

// cleanText strips markup and returns unescaped plain text.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textSanitizer.Sanitize(strings.TrimSpace(s))))
}
