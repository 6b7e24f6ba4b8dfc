package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveSecured(mw *SecurityHeadersMiddleware, method string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mw.Handler(okHandler()).ServeHTTP(rec, httptest.NewRequest(method, "/galleries/open-day", nil))
	return rec
}

// =============================================================================
// Security Headers Middleware Tests
// =============================================================================

func TestSecurityHeadersMiddleware_SetsHeaders(t *testing.T) {
	rec := serveSecured(NewSecurityHeadersMiddleware(true), "GET")

	tests := []struct {
		header   string
		expected string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	}

	for _, tc := range tests {
		if got := rec.Header().Get(tc.header); got != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.header, tc.expected, got)
		}
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("request should pass through, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSecurityHeadersMiddleware_NoHSTSInDevelopment(t *testing.T) {
	rec := serveSecured(NewSecurityHeadersMiddleware(false), "POST")

	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS should not be set in development, got %q", got)
	}
}

func TestSecurityHeadersMiddleware_CSP(t *testing.T) {
	rec := serveSecured(NewSecurityHeadersMiddleware(true, "https://media.example.edu/", " "), "GET")
	csp := rec.Header().Get("Content-Security-Policy")

	for _, want := range []string{
		"default-src 'self'",
		"script-src 'self' https://cdn.jsdelivr.net",
		"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net",
		"img-src 'self' data: https://media.example.edu;",
		"frame-ancestors 'none'",
	} {
		if !strings.Contains(csp, want) {
			t.Errorf("CSP should contain %q, got %q", want, csp)
		}
	}
	if strings.Contains(csp, "unsafe-eval") {
		t.Errorf("CSP should not allow eval, got %q", csp)
	}
}
