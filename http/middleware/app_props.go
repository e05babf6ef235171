package middleware

import (
	"net/http"

	"github.com/xy-planning-network/wayfarer"
)

// InjectAppProps merges props into the wayfarer.AppProps of every request,
// where templates find them under .Props.
//
// If props is empty, NoopAdapter returns.
func InjectAppProps(props wayfarer.AppProps) Adapter {
	if len(props) == 0 {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := wayfarer.NewAppPropsContext(r.Context(), props)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
