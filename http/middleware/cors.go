package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

// CORS sets "Access-Control-Allow" style headers on a response
// for requests originating from base.
//
// Wrap the whole router with CORS so preflight requests are answered before routing,
// since no Route registers http.MethodOptions.
func CORS(base string) Adapter {
	return handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Accept",
			"Content-Type",
			IdempotencyHeader,
			"X-CSRF-Token",
		}),
		handlers.AllowedOrigins([]string{strings.TrimSuffix(base, "/")}),
		handlers.AllowedMethods([]string{
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
			http.MethodPost,
		}),
		handlers.AllowCredentials(),
	)
}
