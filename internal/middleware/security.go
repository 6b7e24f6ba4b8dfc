package middleware

import (
	"net/http"
	"strings"
)

// SwiperCDN is where the carousel runtime is loaded from.
const SwiperCDN = "https://cdn.jsdelivr.net"

// SecurityHeadersMiddleware adds HTTP security headers to all responses.
type SecurityHeadersMiddleware struct {
	isSecure bool
	csp      string
}

// NewSecurityHeadersMiddleware creates a new security headers middleware.
// isSecure enables HSTS. imageOrigins are extra origins gallery images may be
// served from, such as the R2 public URL.
func NewSecurityHeadersMiddleware(isSecure bool, imageOrigins ...string) *SecurityHeadersMiddleware {
	return &SecurityHeadersMiddleware{
		isSecure: isSecure,
		csp:      buildCSP(imageOrigins),
	}
}

// Handler returns middleware that sets security headers on all responses.
func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if m.isSecure {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		h.Set("Content-Security-Policy", m.csp)
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// buildCSP allows Swiper from its CDN, Tailwind's inline styles and gallery
// images from self, data URIs and the configured origins.
func buildCSP(imageOrigins []string) string {
	img := []string{"'self'", "data:"}
	for _, origin := range imageOrigins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		if origin != "" {
			img = append(img, origin)
		}
	}

	directives := []string{
		"default-src 'self'",
		"script-src 'self' " + SwiperCDN,
		"style-src 'self' 'unsafe-inline' " + SwiperCDN,
		"img-src " + strings.Join(img, " "),
		"font-src 'self'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}
