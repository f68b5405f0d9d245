package middleware

import (
	"net/http"

	"github.com/weatherdash/weatherdash/internal/api/models"
)

// HeaderPolicy is the set of browser policies sent with a response.
type HeaderPolicy struct {
	ContentSecurityPolicy string
	PermissionsPolicy     string
}

// APIPolicy locks JSON responses down completely.
var APIPolicy = HeaderPolicy{
	ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	PermissionsPolicy:     "geolocation=(), camera=(), microphone=()",
}

// DashboardPolicy lets the dashboard page load its own script and
// stylesheet, show OpenWeatherMap condition icons, submit the search form to
// itself, and ask for the browser position.
var DashboardPolicy = HeaderPolicy{
	ContentSecurityPolicy: "default-src 'none'; script-src 'self'; style-src 'self'; " +
		"img-src 'self' https://openweathermap.org; form-action 'self'; " +
		"base-uri 'none'; frame-ancestors 'none'",
	PermissionsPolicy: "geolocation=(self), camera=(), microphone=()",
}

// SecurityHeaders adds standard security headers to all HTTP responses.
// Headers set:
//   - X-Content-Type-Options: nosniff
//   - X-Frame-Options: DENY
//   - Strict-Transport-Security: max-age=31536000; includeSubDomains
//   - Content-Security-Policy and Permissions-Policy from the policy
//   - Referrer-Policy: strict-origin-when-cross-origin
func SecurityHeaders(policy HeaderPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Content-Security-Policy", policy.ContentSecurityPolicy)
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", policy.PermissionsPolicy)

			next.ServeHTTP(w, r)
		})
	}
}

// RequireTLS rejects requests that a load balancer forwarded over plain
// HTTP (X-Forwarded-Proto other than https). Requests without the header
// are direct connections and pass. A disabled middleware passes everything.
func RequireTLS(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			proto := r.Header.Get("X-Forwarded-Proto")
			if proto != "" && proto != "https" {
				models.NewError("This endpoint requires HTTPS", GetRequestID(r.Context())).
					Write(w, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
