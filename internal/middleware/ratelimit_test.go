package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Middleware()(http.HandlerFunc(okHandler))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/preview", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"))
}

func TestLoginProtection_Lockout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lp := NewLoginProtection(LoginProtectionConfig{MaxFailedAttempts: 3, LockoutDuration: time.Minute})
	lp.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		locked, _ := lp.RecordFailure("Admin@Example.com")
		assert.False(t, locked)
	}
	locked, d := lp.RecordFailure("admin@example.com")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, d)

	isLocked, remaining := lp.IsLocked("ADMIN@example.com")
	assert.True(t, isLocked)
	assert.Equal(t, time.Minute, remaining)

	now = now.Add(2 * time.Minute)
	isLocked, _ = lp.IsLocked("admin@example.com")
	assert.False(t, isLocked)

	// The second lockout doubles.
	for i := 0; i < 2; i++ {
		lp.RecordFailure("admin@example.com")
	}
	locked, d = lp.RecordFailure("admin@example.com")
	assert.True(t, locked)
	assert.Equal(t, 2*time.Minute, d)
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{MaxFailedAttempts: 2})
	lp.RecordFailure("a@example.com")
	lp.RecordSuccess("a@example.com")

	locked, _ := lp.RecordFailure("a@example.com")
	assert.False(t, locked)
}

func TestLoginProtection_MiddlewareOnlyLimitsPost(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	h := lp.Middleware()(http.HandlerFunc(okHandler))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4444"
	assert.Equal(t, "203.0.113.9", ClientIP(req))

	req.RemoteAddr = "bare"
	assert.Equal(t, "bare", ClientIP(req))
}
