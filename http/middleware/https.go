package middleware

import (
	"net/http"

	"github.com/xy-planning-network/wayfarer"
)

// ForceHTTPS redirects HTTP requests to HTTPS outside of development and testing.
//
// The "X-Forwarded-Proto" header is checked to know whether HTTPS was requested
// when wayfarer runs behind a proxy.
func ForceHTTPS(env wayfarer.Environment) Adapter {
	return func(handler http.Handler) http.Handler {
		if env.IsDevelopment() || env.IsTesting() {
			return handler
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				handler.ServeHTTP(w, r)
				return
			}

			u := *r.URL
			u.Scheme = "https"
			u.Host = r.Host

			http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)
		})
	}
}
