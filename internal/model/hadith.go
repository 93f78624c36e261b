// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared across NoorShare packages.
package model

import "time"

// Known authenticity grades. The set is open; these are the labels offered by the admin form.
const (
	GradeSahih = "Sahih"
	GradeHasan = "Hasan"
	GradeDaif  = "Da'if"
)

// KnownGrades lists the grades in the order the admin form offers them.
var KnownGrades = []string{GradeSahih, GradeHasan, GradeDaif}

// Hadith is an immutable content record. Edits are modelled as delete + add.
type Hadith struct {
	ID          string    `json:"id" yaml:"id"`
	ArabicText  string    `json:"arabic_text" yaml:"arabic_text"`
	Translation string    `json:"translation" yaml:"translation"`
	Source      string    `json:"source" yaml:"source"`
	Grade       string    `json:"grade" yaml:"grade"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
}
