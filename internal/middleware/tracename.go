package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// TraceName renames the active server span to "METHOD /route/{pattern}".
// otelhttp names spans before routing, when only the raw path is known.
func TraceName() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			span := trace.SpanFromContext(r.Context())
			if span.IsRecording() {
				span.SetName(r.Method + " " + RoutePattern(r))
			}
		})
	}
}
