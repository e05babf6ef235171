package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/wayfarer"
)

// RequestIDHeader carries the request ID in and out of wayfarer.
const RequestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under wayfarer.RequestIDKey
// and echoes it in the response headers.
//
// A valid UUID in the incoming X-Request-Id header is reused.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), wayfarer.RequestIDKey, id)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
