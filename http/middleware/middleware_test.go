package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/middleware"
	"github.com/xy-planning-network/wayfarer/http/session"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func teapotHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func newTestStore(t *testing.T) session.Service {
	t.Helper()

	svc, err := session.NewStoreService(session.Config{
		Env:         wayfarer.Testing,
		SessionName: "middleware-test",
		AuthKey:     testKey,
		EncryptKey:  testKey,
	})
	require.Nil(t, err)
	return svc
}

// withSession stores a fresh session in the request's context,
// registering uid with it when uid is not zero.
func withSession(t *testing.T, r *http.Request, uid uint) *http.Request {
	t.Helper()

	s, err := newTestStore(t).GetSession(r)
	require.Nil(t, err)

	if uid != 0 {
		require.Nil(t, s.RegisterUser(httptest.NewRecorder(), r, uid))
	}

	return r.WithContext(context.WithValue(r.Context(), wayfarer.SessionKey, s))
}

func withUser(r *http.Request, u wayfarer.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), wayfarer.CurrentUserKey, u))
}

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	mark := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	middleware.Chain(teapotHandler(), mark("first"), middleware.NoopAdapter, mark("second")).ServeHTTP(w, r)

	// Assert
	require.Equal(t, []string{"first", "second"}, order)
	require.Equal(t, http.StatusTeapot, w.Code)
}
