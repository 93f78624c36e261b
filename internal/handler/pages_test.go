package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/noorshare/internal/config"
	"github.com/olegiv/noorshare/internal/connection"
	"github.com/olegiv/noorshare/internal/model"
	"github.com/olegiv/noorshare/internal/schedule"
	"github.com/olegiv/noorshare/internal/testutil"
)

func TestRequireUser_RedirectsToLogin(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{RouteRoot, RouteDashboard, RouteConnections, RouteSchedule, RouteHadiths, RouteHistory} {
		resp, _ := ts.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, RouteLogin, resp.Header.Get("Location"), path)
	}
}

func TestLogin_Form(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.get(t, RouteLogin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, containsAll(body, `name="email"`, `name="password"`, `dir="ltr"`))
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.post(t, RouteLogin, url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong-password"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password")
	assert.Contains(t, body, `value="admin@example.com"`)
}

func TestLogin_ThenLogout(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, _ := ts.get(t, RouteRoot)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteConnections, resp.Header.Get("Location"))

	resp, _ = ts.post(t, RouteLogout, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = ts.get(t, RouteConnections)
	assert.Equal(t, RouteLogin, resp.Header.Get("Location"))
}

func TestConnections_Page(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, body := ts.get(t, RouteConnections)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := ts.app.Preview.Current()
	assert.True(t, containsAll(body,
		"Social Connections",
		"DAILY REMINDER",
		snap.Hadith.Source,
		"Facebook", "Instagram", "WhatsApp",
		"Disconnect",
		"/preview/card.png?layout=portrait",
	))
	assert.NotContains(t, body, `http-equiv="refresh"`)

	resp, body = ts.get(t, RouteConnections+"?layout=landscape")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/preview/card.png?layout=landscape")
}

func TestConnections_Next(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	before := ts.app.Preview.Current()
	resp, _ := ts.post(t, RouteConnections+"/next", url.Values{"layout": {"landscape"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteConnections+"?layout=landscape", resp.Header.Get("Location"))

	after := ts.app.Preview.Current()
	assert.Equal(t, (before.Index+1)%before.Total, after.Index)
}

func TestConnections_ToggleAndCancel(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) { cfg.ToggleDelay = time.Minute })
	ts.login(t)

	resp, _ := ts.post(t, "/connections/facebook/toggle", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	st, err := ts.app.Connections.Account(model.PlatformFacebook)
	require.NoError(t, err)
	assert.True(t, st.Pending())

	// The page polls while a toggle is pending.
	_, body := ts.get(t, RouteConnections)
	assert.Contains(t, body, `http-equiv="refresh"`)

	resp, _ = ts.post(t, "/connections/facebook/cancel", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	st, err = ts.app.Connections.Account(model.PlatformFacebook)
	require.NoError(t, err)
	assert.Equal(t, connection.StateConnected, st.State)
}

func TestConnections_ToggleCompletes(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, _ := ts.post(t, "/connections/instagram/toggle", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	assert.Eventually(t, func() bool {
		st, err := ts.app.Connections.Account(model.PlatformInstagram)
		return err == nil && st.State == connection.StateDisconnected
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConnections_UnknownPlatform(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, _ := ts.post(t, "/connections/myspace/toggle", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPreviewCard(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, body := ts.get(t, RoutePreviewCard+"?layout=landscape")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	_, err := ts.app.Publisher.Publish(t.Context(), testNow)
	require.NoError(t, err)

	resp, body := ts.get(t, RouteDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, containsAll(body, "Total posts", "Last 7 days", "Nothing scheduled", "System log", "login succeeded"))
}

func TestSchedule_SaveInvalid(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, body := ts.post(t, RouteSchedule, url.Values{
		"frequency": {"daily"},
		"time":      {"25:00"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.True(t, containsAll(body, "Time must be HH:MM", "Please select at least one platform"))
	assert.Equal(t, schedule.DefaultSettings(), ts.app.Scheduler.Settings())
}

func TestSchedule_Save(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, _ := ts.post(t, RouteSchedule, url.Values{
		"frequency": {"twice"},
		"time":      {"07:15"},
		"platforms": {"Facebook", "WhatsApp"},
		"enabled":   {"on"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteSchedule, resp.Header.Get("Location"))

	got := ts.app.Scheduler.Settings()
	assert.Equal(t, schedule.FrequencyTwice, got.Frequency)
	assert.Equal(t, "07:15", got.Time)
	assert.Equal(t, []model.Platform{model.PlatformFacebook, model.PlatformWhatsApp}, got.Platforms)
	assert.True(t, got.Enabled)
	assert.Equal(t, 2, ts.app.Scheduler.ActiveJobs())

	_, body := ts.get(t, RouteSchedule)
	assert.True(t, containsAll(body, "Schedule saved", `value="07:15"`, "Next run:"))
}

func TestSchedule_Suggest(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)
	ts.gen.SetReply("The best time is 20:30 in the evening.", nil)

	resp, _ := ts.post(t, RouteSchedule+"/suggest", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteSchedule+"?suggested=20%3A30", resp.Header.Get("Location"))

	_, body := ts.get(t, RouteSchedule+"?suggested=20:30")
	assert.True(t, containsAll(body, "Suggested time: 20:30", `value="20:30"`))
}

func TestHadiths_CreateAndDelete(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, body := ts.post(t, RouteHadiths, url.Values{"source": {"Sahih Muslim"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.True(t, containsAll(body, "Please enter Arabic text", "Please select a grade", `value="Sahih Muslim"`))
	assert.Equal(t, 3, ts.app.Hadiths.Len())

	resp, _ = ts.post(t, RouteHadiths, url.Values{
		"arabic_text": {"الدين النصيحة"},
		"translation": {"Religion is sincerity."},
		"source":      {"Sahih Muslim"},
		"grade":       {model.GradeSahih},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, 4, ts.app.Hadiths.Len())

	newest := ts.app.Hadiths.NewestFirst()[0]
	assert.Equal(t, "Religion is sincerity.", newest.Translation)

	_, body = ts.get(t, RouteHadiths)
	assert.True(t, containsAll(body, "Hadith added", "4 hadiths in the collection", "Religion is sincerity."))

	resp, _ = ts.post(t, RouteHadiths+"/"+newest.ID+"/delete", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 3, ts.app.Hadiths.Len())
}

func TestHistory_Regenerate(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	post, err := ts.app.Publisher.Publish(t.Context(), testNow)
	require.NoError(t, err)

	_, body := ts.get(t, RouteHistory)
	assert.True(t, containsAll(body, "Posted", post.HadithSource, "Reflect on this today."))

	ts.gen.SetReply("A fresh caption", nil)
	resp, _ := ts.post(t, RouteHistory+"/"+post.ID+"/caption", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	got, err := ts.app.History.Get(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "A fresh caption", got.Caption)

	resp, _ = ts.post(t, RouteHistory+"/missing/caption", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLanguage_Switch(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, _ := ts.post(t, RouteLanguage, url.Values{"lang": {"ar"}, "return": {RouteDashboard}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteDashboard, resp.Header.Get("Location"))

	_, body := ts.get(t, RouteDashboard)
	assert.Contains(t, body, `dir="rtl"`)
	assert.Contains(t, body, `lang="ar"`)
}

func TestLanguage_RejectsExternalReturn(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.post(t, RouteLanguage, url.Values{"lang": {"en"}, "return": {"//evil.example"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteConnections, resp.Header.Get("Location"))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.get(t, RouteHealth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status HealthStatus
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "memory", status.Cache)
	assert.Equal(t, "ok", status.Checks["database"])
}

func TestCrossSitePostRejected(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+RouteConnections+"/next", nil)
	require.NoError(t, err)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	_ = readBody(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRobots(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.get(t, RouteRobots)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User-agent: *\nDisallow: /\n", body)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestHistory_PageOutOfRange(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	resp, _ := ts.get(t, RouteHistory+"?page=7")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_RememberMe(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.post(t, RouteLogin, url.Values{
		"email":    {testutil.AdminEmail},
		"password": {testutil.AdminPassword},
		"remember": {"1"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == "noor_session" {
			found = true
			assert.Positive(t, c.MaxAge)
		}
	}
	assert.True(t, found, "session cookie not set")
}
