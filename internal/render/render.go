// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded page templates and renders them inside
// the dashboard layout.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/dustin/go-humanize"

	"github.com/olegiv/noorshare/internal/caption"
	"github.com/olegiv/noorshare/internal/i18n"
	"github.com/olegiv/noorshare/internal/middleware"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/session"
)

// blankLines matches runs of whitespace-only lines left behind by template actions.
var blankLines = regexp.MustCompile(`(\r?\n[ \t]*)+\r?\n`)

// Renderer holds one parsed template set per page.
type Renderer struct {
	templates map[string]*template.Template
	sessions  *scs.SessionManager
	now       func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Now            func() time.Time
}

// New parses every page under pages/ and auth/.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		sessions:  cfg.SessionManager,
		now:       cfg.Now,
	}
	if r.now == nil {
		r.now = time.Now
	}

	partials, err := templateFiles(cfg.TemplatesFS, "partials")
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{"pages", "auth"} {
		pages, err := templateFiles(cfg.TemplatesFS, dir)
		if err != nil {
			return nil, err
		}
		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append([]string{"layouts/base.html"}, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(Funcs()).ParseFS(cfg.TemplatesFS, files...)
			if err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}
	return r, nil
}

func templateFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s templates: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".html") {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Funcs returns the template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"T":   i18n.T,
		"dir": i18n.Direction,
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"relTime": func(t time.Time) string {
			return humanize.Time(t)
		},
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"percent": func(f float64) string {
			return fmt.Sprintf("%.0f%%", f)
		},
		"barHeight": func(n, highest int) int {
			if highest <= 0 {
				return 0
			}
			return n * 100 / highest
		},
		"slug":        func(p model.Platform) string { return p.Slug() },
		"captionHTML": caption.HTML,
		"truncate": func(s string, n int) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return string(r[:n]) + "..."
		},
		"add":   func(a, b int) int { return a + b },
		"lower": strings.ToLower,
	}
}

// TemplateData is passed to every page.
type TemplateData struct {
	Title       string
	Page        string
	Path        string
	Lang        string
	Dir         string
	Languages   []Language
	User        *model.User
	Flash       string
	Data        any
	CurrentYear int
}

// Language is an entry of the language switcher.
type Language struct {
	Code   string
	Name   string
	Active bool
}

// Render executes the "base" layout for page name with data.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code, e.g. 422 for invalid forms.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.Lang = middleware.GetLang(req)
	data.Dir = i18n.Direction(data.Lang)
	data.User = middleware.GetUser(req)
	data.CurrentYear = r.now().Year()
	data.Page = name
	data.Path = req.URL.Path
	for _, code := range i18n.SupportedLanguages {
		data.Languages = append(data.Languages, Language{Code: code, Name: i18n.Name(code), Active: code == data.Lang})
	}
	if r.sessions != nil && data.Flash == "" {
		data.Flash = session.PopFlash(req.Context(), r.sessions)
	}
	if data.Title != "" {
		data.Title = i18n.T(data.Lang, data.Title)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(blankLines.ReplaceAll(buf.Bytes(), []byte("\n")))
	return err
}

// Has reports whether a page template named name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
