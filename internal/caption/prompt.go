// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package caption

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"

	"github.com/olegiv/noorshare/internal/model"
)

const captionPrompt = `You are a social media manager for an Islamic content page.
Generate a short, engaging, and respectful caption for %s based on the following Hadith.

Hadith Source: %s
Hadith Text: "%s"

Requirements:
- Include relevant hashtags, for example %s.
- Keep the tone spiritual and reflective.
- For Instagram, include line breaks.
- Do not include the Hadith text itself in the caption, just the reflection/hook, as the text is in the image.
`

const suggestTimePrompt = "Suggest the best time of day (in HH:MM format, 24h) to post religious content on social media for maximum engagement globally."

// BuildPrompt returns the caption prompt for h on platform.
func BuildPrompt(h model.Hadith, platform string) string {
	tags := "#Hadith"
	if tag := Hashtag(h.Source); tag != "" && tag != tags {
		tags += " " + tag
	}
	return fmt.Sprintf(captionPrompt, platform, h.Source, h.Translation, tags)
}

// Hashtag converts a source name into an ASCII CamelCase hashtag,
// e.g. "Sahih al-Bukhari" becomes "#SahihAlBukhari". Returns "" when
// nothing alphanumeric remains.
func Hashtag(source string) string {
	ascii := unidecode.Unidecode(source)

	var sb strings.Builder
	upper := true
	for _, r := range ascii {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return ""
	}
	return "#" + sb.String()
}
