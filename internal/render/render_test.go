package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/noorshare/internal/i18n"
	"github.com/olegiv/noorshare/internal/middleware"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/testutil"
	"github.com/olegiv/noorshare/web"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(testutil.TestLoggerSilent()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestNew_ParsesEmbeddedTemplates(t *testing.T) {
	r, err := New(Config{TemplatesFS: web.Templates})
	require.NoError(t, err)

	for _, name := range []string{
		"auth/login",
		"pages/dashboard",
		"pages/connections",
		"pages/schedule",
		"pages/hadiths",
		"pages/history",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("pages/missing"))
}

func TestNew_MissingDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
	}
	_, err := New(Config{TemplatesFS: fsys})
	assert.Error(t, err)
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}<html lang="{{.Lang}}" dir="{{.Dir}}">` +
			`<title>{{.Title}}</title>{{template "content" .}}</html>{{end}}`)},
		"partials/empty.html": {Data: []byte(`{{define "partial"}}{{end}}`)},
		"pages/hello.html": {Data: []byte(`{{define "content"}}


<p>{{.Data}} {{if .User}}{{.User.Name}}{{end}} {{.CurrentYear}} {{.Path}}</p>{{end}}`)},
		"auth/login.html": {Data: []byte(`{{define "content"}}login{{end}}`)},
	}
}

func TestRenderStatus(t *testing.T) {
	r, err := New(Config{
		TemplatesFS: testFS(),
		Now:         func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	ctx := context.WithValue(req.Context(), middleware.ContextKeyLanguage, "ar")
	ctx = context.WithValue(ctx, middleware.ContextKeyUser, model.User{Name: "Amina"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	err = r.RenderStatus(rec, req, http.StatusUnprocessableEntity, "pages/hello", TemplateData{Title: "dash.title", Data: "salam"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `lang="ar" dir="rtl"`)
	assert.Contains(t, body, "<p>salam Amina 2031 /hello</p>")
	assert.NotContains(t, body, "<title>dash.title</title>", "title is translated")
	assert.False(t, strings.Contains(body, "\n\n"), "blank lines are collapsed")
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	require.NoError(t, err)

	err = r.Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "pages/nope", TemplateData{})
	assert.Error(t, err)
}

func TestFuncs(t *testing.T) {
	f := Funcs()

	percent := f["percent"].(func(float64) string)
	assert.Equal(t, "75%", percent(75))

	barHeight := f["barHeight"].(func(int, int) int)
	assert.Equal(t, 50, barHeight(2, 4))
	assert.Equal(t, 0, barHeight(3, 0))

	truncate := f["truncate"].(func(string, int) string)
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "إنما...", truncate("إنما الأعمال", 4))

	comma := f["comma"].(func(int) string)
	assert.Equal(t, "12,345", comma(12345))

	slug := f["slug"].(func(model.Platform) string)
	assert.Equal(t, "whatsapp", slug(model.PlatformWhatsApp))
}
