// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package card draws the shareable preview image of the current Hadith.
//
// Text is drawn with the built-in bitmap face, which has no Arabic glyphs, so
// the card carries the translation and source; the HTML preview shows the
// Arabic text.
package card

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/olegiv/noorshare/internal/preview"
)

// Header is the label at the top of every card.
const Header = "DAILY REMINDER"

// Brand replaces the source line when there is nothing to show.
const Brand = "NoorShare"

var (
	gradientFrom = color.NRGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}
	gradientTo   = color.NRGBA{R: 0x0f, G: 0x76, B: 0x6e, A: 0xff}
	headerColor  = color.NRGBA{R: 0xd1, G: 0xfa, B: 0xe5, A: 0xff}
	bodyColor    = color.NRGBA{R: 0xec, G: 0xfd, B: 0xf5, A: 0xff}
	dotColor     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x1a}
	ruleColor    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x33}
)

// metrics scale the card to its layout.
type metrics struct {
	width, height int
	padding       int
	dotSpacing    int
	headerScale   int
	bodyScale     int
	footerScale   int
}

func metricsFor(layout preview.Layout) metrics {
	w, h := layout.Size()
	m := metrics{width: w, height: h, dotSpacing: 68, headerScale: 3, footerScale: 4}
	if layout == preview.LayoutLandscape {
		m.padding = 160
		m.bodyScale = 5
	} else {
		m.padding = 100
		m.bodyScale = 4
	}
	return m
}

// Render draws the card for snap and writes it as PNG.
func Render(w io.Writer, snap preview.Snapshot, layout preview.Layout) error {
	if err := imaging.Encode(w, Draw(snap, layout), imaging.PNG); err != nil {
		return fmt.Errorf("encoding card: %w", err)
	}
	return nil
}

// Draw returns the card image for snap.
func Draw(snap preview.Snapshot, layout preview.Layout) *image.NRGBA {
	m := metricsFor(layout)
	img := background(m)

	header := textImage(Header, headerColor)
	placeCentered(img, header, m.headerScale, m.padding)

	footer := Brand
	body := "No hadiths yet"
	if !snap.Empty {
		footer = snap.Hadith.Source
		body = `"` + snap.Hadith.Translation + `"`
	}

	footerImg := textImage(footer, color.White)
	footerY := m.height - m.padding - footerImg.Bounds().Dy()*m.footerScale
	ruleY := footerY - 40
	draw.Draw(img, image.Rect(m.padding, ruleY, m.width-m.padding, ruleY+3), image.NewUniform(ruleColor), image.Point{}, draw.Over)
	placeCentered(img, footerImg, m.footerScale, footerY)

	drawBody(img, m, body, ruleY)
	return img
}

// background fills the 135 degree gradient and the dot pattern.
func background(m metrics) *image.NRGBA {
	img := imaging.New(m.width, m.height, gradientFrom)
	span := float64(m.width + m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			img.SetNRGBA(x, y, lerp(gradientFrom, gradientTo, float64(x+y)/span))
		}
	}

	dot := image.NewUniform(dotColor)
	for y := m.dotSpacing / 2; y < m.height; y += m.dotSpacing {
		for x := m.dotSpacing / 2; x < m.width; x += m.dotSpacing {
			draw.Draw(img, image.Rect(x-2, y-2, x+2, y+2), dot, image.Point{}, draw.Over)
		}
	}
	return img
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// drawBody wraps and vertically centers the body text above the footer rule.
func drawBody(img *image.NRGBA, m metrics, text string, bottom int) {
	face := basicfont.Face7x13
	charWidth := face.Advance * m.bodyScale
	lineHeight := (face.Height + 6) * m.bodyScale

	maxChars := (m.width - 2*m.padding) / charWidth
	lines := Wrap(text, maxChars)

	top := m.padding + face.Height*m.headerScale
	maxLines := (bottom - top - 80) / lineHeight
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) > maxChars-3 {
			last = last[:maxChars-3]
		}
		lines[maxLines-1] = string(last) + "..."
	}

	y := top + (bottom-top-len(lines)*lineHeight)/2
	for _, line := range lines {
		placeCentered(img, textImage(line, bodyColor), m.bodyScale, y)
		y += lineHeight
	}
}

// textImage renders s at the face's native size on a transparent background.
func textImage(s string, c color.Color) *image.NRGBA {
	s = ascii(s)
	face := basicfont.Face7x13
	width := max(font.MeasureString(face, s).Ceil(), 1)
	img := image.NewNRGBA(image.Rect(0, 0, width, face.Height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)
	return img
}

// placeCentered upscales src without smoothing and overlays it horizontally centered at y.
func placeCentered(dst *image.NRGBA, src *image.NRGBA, scale, y int) {
	b := src.Bounds()
	scaled := imaging.Resize(src, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
	x := (dst.Bounds().Dx() - scaled.Bounds().Dx()) / 2
	draw.Draw(dst, scaled.Bounds().Add(image.Pt(x, y)), scaled, image.Point{}, draw.Over)
}

// ascii transliterates characters the bitmap face cannot draw.
func ascii(s string) string {
	for _, r := range s {
		if r > 0x7e {
			return unidecode.Unidecode(s)
		}
	}
	return s
}

// Wrap splits text into lines of at most width runes, breaking at spaces.
// Words longer than width are split.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
