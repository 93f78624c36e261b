package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	dev := DefaultCSRFConfig(testKey, true, "localhost:8080")
	assert.ElementsMatch(t, []string{"localhost:8080", "127.0.0.1:8080"}, dev.TrustedOrigins)

	prod := DefaultCSRFConfig(testKey, false, ":8080")
	assert.Empty(t, prod.TrustedOrigins)
}

func TestCSRF_AllowsSafeMethods(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testKey, false, ":8080"))(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/connections", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testKey, false, ":8080"))(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodPost, "/connections/next", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_AllowsSameOriginPost(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testKey, false, ":8080"))(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodPost, "/connections/next", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSkipCSRF(t *testing.T) {
	h := SkipCSRF("/health")(CSRF(DefaultCSRFConfig(testKey, false, ":8080"))(http.HandlerFunc(okHandler)))

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
