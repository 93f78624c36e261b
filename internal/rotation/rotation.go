// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rotation picks the item shown for a calendar day and cycles through
// an ordered collection on request.
package rotation

import "time"

// DayOfYear returns the number of whole days elapsed since January 1st of t's
// year, in t's own location. January 1st is day 0.
func DayOfYear(t time.Time) int {
	return t.YearDay() - 1
}

// DailyIndex returns the index of the item for today in a collection of the
// given size. The result is stable for every instant of the same calendar day.
// A non-positive size yields 0; callers render the empty state in that case.
func DailyIndex(size int, today time.Time) int {
	if size <= 0 {
		return 0
	}
	return DayOfYear(today) % size
}

// Advance returns the next index after current, wrapping at size.
// With nothing to cycle to (size <= 1) it returns current unchanged.
func Advance(current, size int) int {
	if size <= 1 {
		return current
	}
	return (current + 1) % size
}
