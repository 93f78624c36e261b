// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/noorshare/internal/model"
)

// Frequency is how often the daily Hadith is posted.
type Frequency string

// Supported frequencies.
const (
	FrequencyDaily  Frequency = "daily"
	FrequencyTwice  Frequency = "twice"
	FrequencyWeekly Frequency = "weekly"
)

// Frequencies lists the frequencies in form order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyTwice, FrequencyWeekly}

// DefaultTime is the posting time offered before anything is saved.
const DefaultTime = "18:00"

// Settings is the saved posting schedule.
type Settings struct {
	Frequency Frequency        `json:"frequency"`
	Time      string           `json:"time"` // HH:MM, 24h
	Platforms []model.Platform `json:"platforms"`
	Enabled   bool             `json:"enabled"`
}

// DefaultSettings returns the schedule used until the operator saves one.
func DefaultSettings() Settings {
	return Settings{
		Frequency: FrequencyDaily,
		Time:      DefaultTime,
		Platforms: append([]model.Platform(nil), model.Platforms...),
		Enabled:   false,
	}
}

// clock splits Time into hour and minute. Settings are validated before they
// are stored, so a malformed time falls back to the default.
func (s Settings) clock() (hour, minute int) {
	t, err := time.Parse("15:04", s.Time)
	if err != nil {
		return 18, 0
	}
	return t.Hour(), t.Minute()
}

// CronSpecs returns the standard cron expressions for the schedule.
// Weekly posts go out on Fridays; twice-daily posts are twelve hours apart.
func (s Settings) CronSpecs() []string {
	hour, minute := s.clock()
	switch s.Frequency {
	case FrequencyTwice:
		return []string{
			fmt.Sprintf("%d %d * * *", minute, hour),
			fmt.Sprintf("%d %d * * *", minute, (hour+12)%24),
		}
	case FrequencyWeekly:
		return []string{fmt.Sprintf("%d %d * * 5", minute, hour)}
	default:
		return []string{fmt.Sprintf("%d %d * * *", minute, hour)}
	}
}

// HasPlatform reports whether p is among the scheduled platforms.
func (s Settings) HasPlatform(p model.Platform) bool {
	for _, sp := range s.Platforms {
		if sp == p {
			return true
		}
	}
	return false
}

// SettingsInput is the typed payload of the schedule form and API request.
type SettingsInput struct {
	Frequency string   `json:"frequency"`
	Time      string   `json:"time"`
	Platforms []string `json:"platforms"`
	Enabled   bool     `json:"enabled"`
}

// Validate checks the input and converts it to Settings.
func (in SettingsInput) Validate() (Settings, model.ValidationErrors) {
	errs := model.ValidationErrors{}
	out := Settings{Enabled: in.Enabled}

	freq := Frequency(strings.ToLower(strings.TrimSpace(in.Frequency)))
	switch freq {
	case FrequencyDaily, FrequencyTwice, FrequencyWeekly:
		out.Frequency = freq
	case "":
		errs["frequency"] = "Please select a frequency"
	default:
		errs["frequency"] = "Unknown frequency"
	}

	tm := strings.TrimSpace(in.Time)
	if tm == "" {
		errs["time"] = "Please select a time"
	} else if t, err := time.Parse("15:04", tm); err != nil {
		errs["time"] = "Time must be HH:MM"
	} else {
		out.Time = t.Format("15:04")
	}

	seen := map[model.Platform]bool{}
	for _, name := range in.Platforms {
		p, err := model.ParsePlatform(name)
		if err != nil {
			errs["platforms"] = "Unknown platform"
			break
		}
		if !seen[p] {
			seen[p] = true
			out.Platforms = append(out.Platforms, p)
		}
	}
	if _, bad := errs["platforms"]; !bad && len(out.Platforms) == 0 {
		errs["platforms"] = "Please select at least one platform"
	}

	if len(errs) > 0 {
		return Settings{}, errs
	}
	return out, nil
}
