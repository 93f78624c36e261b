// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"time"
)

// Platform is one of the fixed set of social platforms.
type Platform string

// Supported platforms.
const (
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformWhatsApp  Platform = "WhatsApp"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformWhatsApp}

// ParsePlatform resolves a platform name case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Slug returns the lowercase form used in URLs.
func (p Platform) Slug() string {
	return strings.ToLower(string(p))
}

// SocialAccount is the connection state of one platform account.
// Handle and LastSync are set only while Connected is true.
type SocialAccount struct {
	Platform  Platform   `json:"platform"`
	Connected bool       `json:"connected"`
	Handle    string     `json:"handle,omitempty"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
}

// Disconnected returns a copy of a with the connection fields cleared together.
func (a SocialAccount) Disconnected() SocialAccount {
	return SocialAccount{Platform: a.Platform}
}

// ConnectedAs returns a copy of a connected with handle and synced at the given time.
func (a SocialAccount) ConnectedAs(handle string, at time.Time) SocialAccount {
	return SocialAccount{
		Platform:  a.Platform,
		Connected: true,
		Handle:    handle,
		LastSync:  &at,
	}
}
