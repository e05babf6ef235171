package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/session"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under wayfarer.SessionKey.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// NOTE: gorilla returns a new session alongside decoding errors
			// so stale cookies start fresh.
			s, _ := store.GetSession(r)
			ctx := context.WithValue(r.Context(), wayfarer.SessionKey, s)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
