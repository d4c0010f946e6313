// Package middleware provides HTTP middleware for lixshare.
// This includes security headers, request logging, metrics and other
// cross-cutting concerns.
package middleware

import (
	"net/http"

	"github.com/liskl/lixshare/internal/config"
)

// SecurityHeaders returns middleware that adds security headers to responses.
//
// Stored documents are served as HTML. With sanitization off, the content
// security policy is what keeps a submitted <script> from running: scripts
// may only load from this origin, never inline.
func SecurityHeaders(cfg *config.Config) func(http.Handler) http.Handler {
	imgSrc := "img-src 'self' data: https:; "
	if cfg.Main.Sanitize {
		// Sanitized documents can't carry data: URIs anyway.
		imgSrc = "img-src 'self' https:; "
	}
	csp := "default-src 'self'; " +
		"script-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		imgSrc +
		"font-src 'self'; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Control referrer information
			w.Header().Set("Referrer-Policy", "no-referrer")

			// Documents can expire, so nothing is cached
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
			w.Header().Set("Pragma", "no-cache")

			w.Header().Set("Content-Security-Policy", csp)

			// Permissions Policy (formerly Feature-Policy)
			w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			next.ServeHTTP(w, r)
		})
	}
}
