package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/noorshare/internal/app"
	"github.com/olegiv/noorshare/internal/config"
	"github.com/olegiv/noorshare/internal/i18n"
	"github.com/olegiv/noorshare/internal/render"
	"github.com/olegiv/noorshare/internal/session"
	"github.com/olegiv/noorshare/internal/testutil"
	"github.com/olegiv/noorshare/internal/version"
	"github.com/olegiv/noorshare/web"
)

var testNow = time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	if err := i18n.Init(testutil.TestLoggerSilent()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testServer struct {
	app    *app.State
	gen    *testutil.FakeGenerator
	srv    *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T, configure ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := testutil.TestConfig()
	for _, fn := range configure {
		fn(cfg)
	}
	db := testutil.SeededDB(t, true)
	gen := testutil.NewFakeGenerator("Reflect on this today.\n#Hadith")
	state, err := app.New(context.Background(), cfg, db, testutil.TestLoggerSilent(), app.Options{
		Generator: gen,
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = state.Close() })

	sessions := session.New(db, true, 0)
	renderer, err := render.New(render.Config{TemplatesFS: web.Templates, SessionManager: sessions, Now: state.Now})
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(RouterConfig{
		App:      state,
		Sessions: sessions,
		Renderer: renderer,
		Version:  version.Info{Version: "v0.0.0-test"},
		Logger:   testutil.TestLoggerSilent(),
	}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testServer{app: state, gen: gen, srv: srv, client: client}
}

func (ts *testServer) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := ts.client.Get(ts.srv.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (ts *testServer) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := ts.client.PostForm(ts.srv.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (ts *testServer) login(t *testing.T) {
	t.Helper()
	resp, _ := ts.post(t, RouteLogin, url.Values{
		"email":    {testutil.AdminEmail},
		"password": {testutil.AdminPassword},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, RouteConnections, resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func containsAll(body string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(body, p) {
			return false
		}
	}
	return true
}
