package handler_test

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/handler"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/router"
	"github.com/xy-planning-network/wayfarer/http/session"
	"github.com/xy-planning-network/wayfarer/http/template"
	"github.com/xy-planning-network/wayfarer/logger"
	"github.com/xy-planning-network/wayfarer/travel/mock"
	goauth2 "google.golang.org/api/oauth2/v2"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

var traveller = wayfarer.User{
	Model:       wayfarer.Model{ID: 3},
	AccessState: wayfarer.AccessGranted,
	Email:       "zheng.he@example.com",
	Name:        "Zheng He",
}

// fakeAuth stands in for *auth.Service.
type fakeAuth struct {
	email  string
	err    error
	google bool
	info   *goauth2.Userinfo
}

func (f fakeAuth) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (f fakeAuth) AuthenticateJWT(_ string) (string, error) { return f.email, f.err }

func (f fakeAuth) FetchUser(_ context.Context, _ string) (*goauth2.Userinfo, error) {
	return f.info, f.err
}

func (f fakeAuth) GoogleEnabled() bool { return f.google }

// newTestRouter serves the Handler's routes the way wayfarer does.
func newTestRouter(t *testing.T, opts ...handler.Option) (*router.Router, *mock.MockStore) {
	t.Helper()

	store := mock.NewMockStore(gomock.NewController(t))
	d := resp.NewResponder(
		resp.WithAuthTemplate(template.AuthedTmpl),
		resp.WithEnv(wayfarer.Testing),
		resp.WithErrTemplate(template.ErrTmpl),
		resp.WithLogger(logger.New(slog.New(slog.NewTextHandler(io.Discard, nil)))),
		resp.WithParser(template.NewParser([]fs.FS{handler.Views})),
		resp.WithPartialsTemplate(template.PartialsTmpl),
		resp.WithRootURL("http://example.com/"),
		resp.WithUnauthTemplate(template.UnauthedTmpl),
	)

	h := handler.New(d, store, opts...)
	rt := router.New()
	rt.HandleRoutes(h.Routes())
	rt.HandleNotFound(h.NotFound)
	rt.MethodNotAllowed(h.MethodNotAllowed)

	return rt, store
}

// withSession adds a fresh session to r, returning both.
func withSession(t *testing.T, r *http.Request) (*http.Request, session.Session) {
	t.Helper()

	svc, err := session.NewStoreService(session.Config{
		Env:         wayfarer.Testing,
		SessionName: "handler-test",
		AuthKey:     testKey,
		EncryptKey:  testKey,
	})
	require.Nil(t, err)

	s, err := svc.GetSession(r)
	require.Nil(t, err)

	return reuseSession(r, s), s
}

// reuseSession adds s to r, as if the client sent the cookie for it.
func reuseSession(r *http.Request, s session.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), wayfarer.SessionKey, s))
}

func withUser(r *http.Request, u wayfarer.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), wayfarer.CurrentUserKey, u))
}

// postForm builds a request submitting an HTML form.
func postForm(target string, vals url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(vals.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "text/html")
	return r
}

// postJSON builds a request from a JSON client.
func postJSON(target, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	return r
}

// flashes reads back the flashes left in s.
func flashes(s session.Session, r *http.Request) []session.Flash {
	return s.Flashes(httptest.NewRecorder(), r)
}

func TestRoutes(t *testing.T) {
	// Arrange
	h := handler.New(resp.NewResponder(), nil)
	expected := []struct {
		name    string
		path    string
		methods []string
	}{
		{"index", "/", []string{http.MethodGet}},
		{"create", "/create/", []string{http.MethodGet, http.MethodPost}},
		{"login", "/login/", []string{http.MethodGet, http.MethodPost}},
		{"update", "/update/", []string{http.MethodGet, http.MethodPost}},
		{"addTrip", "/addTrip/", []string{http.MethodGet, http.MethodPost}},
		{"deleteTrip", "/deleteTrip/", []string{http.MethodPost}},
	}

	for range 2 {
		// Act
		actual := h.Routes()

		// Assert
		require.Len(t, actual, len(expected))
		for i, route := range actual {
			require.Equal(t, expected[i].name, route.Name)
			require.Equal(t, expected[i].path, route.Path)
			require.Equal(t, expected[i].methods, route.Methods)
			require.NotNil(t, route.Handler)
		}
	}
}

func TestRoutesMatch(t *testing.T) {
	// Arrange
	rt, _ := newTestRouter(t)
	for path, expected := range map[string]string{
		"/":            "index",
		"/create/":     "create",
		"/login/":      "login",
		"/update/":     "update",
		"/addTrip/":    "addTrip",
		"/deleteTrip/": "deleteTrip",
	} {
		t.Run(expected, func(t *testing.T) {
			method := http.MethodGet
			if expected == "deleteTrip" {
				method = http.MethodPost
			}

			// Act
			actual, ok := rt.Match(httptest.NewRequest(method, path, nil))

			// Assert
			require.True(t, ok)
			require.Equal(t, expected, actual)
		})
	}

	for _, path := range []string{"/nowhere/", "/addtrip/", "/login/extra/"} {
		t.Run(path, func(t *testing.T) {
			// Act
			_, ok := rt.Match(httptest.NewRequest(http.MethodGet, path, nil))

			// Assert
			require.False(t, ok)
		})
	}
}

func TestStrictSlash(t *testing.T) {
	// Arrange
	rt, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/login", nil)

	// Act
	rt.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusMovedPermanently, w.Code)
	require.Equal(t, "/login/", w.Header().Get("Location"))
}

func TestNotFound(t *testing.T) {
	// Arrange
	rt, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/nowhere/", nil))
	r.Header.Set("Accept", "text/html,application/xhtml+xml")

	// Act
	rt.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Lost at sea")

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/nowhere/", nil)
	r.Header.Set("Accept", "application/json")

	// Act
	rt.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Not Found\n", w.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	// Arrange
	rt, _ := newTestRouter(t)
	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodDelete, "/login/", nil),
		httptest.NewRequest(http.MethodGet, "/deleteTrip/", nil),
		httptest.NewRequest(http.MethodPost, "/", nil),
	} {
		t.Run(r.Method+r.URL.Path, func(t *testing.T) {
			w := httptest.NewRecorder()

			// Act
			rt.ServeHTTP(w, r)

			// Assert
			require.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
}
