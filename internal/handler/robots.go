// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
)

// robotsTxt keeps crawlers out of the whole dashboard.
var robotsTxt = buildRobots([]string{"/"})

func buildRobots(disallow []string) string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	for _, path := range disallow {
		sb.WriteString("Disallow: ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Robots handles GET /robots.txt.
func Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(robotsTxt))
}
