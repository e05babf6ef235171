package resp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/session"
	tt "github.com/xy-planning-network/wayfarer/http/template/templatetest"
	"github.com/xy-planning-network/wayfarer/logger"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

var traveller = wayfarer.User{
	Model:       wayfarer.Model{ID: 9},
	AccessState: wayfarer.AccessGranted,
	Email:       "ibn@example.com",
	Name:        "Ibn Battuta",
}

func newResponder(t *testing.T, opts ...resp.ResponderOptFn) (*resp.Responder, *bytes.Buffer) {
	t.Helper()

	buf := new(bytes.Buffer)
	l := logger.New(slog.New(slog.NewTextHandler(buf, nil)))
	p := tt.NewParser(
		tt.NewMockFile("tmpl/page.tmpl", []byte(`{{ define "content" }}<h1>{{ .Data }}</h1>{{ end }}`)),
		tt.NewMockFile("tmpl/broken.tmpl", []byte(`{{ define "content" }}{{ .Data.Missing.Field }}{{ end }}`)),
	)

	base := []resp.ResponderOptFn{
		resp.WithLogger(l),
		resp.WithParser(p),
		resp.WithEnv(wayfarer.Testing),
		resp.WithAuthTemplate("tmpl/authed.tmpl"),
		resp.WithUnauthTemplate("tmpl/unauthed.tmpl"),
		resp.WithPartialsTemplate("tmpl/partials.tmpl"),
		resp.WithErrTemplate("tmpl/error.tmpl"),
	}

	return resp.NewResponder(append(base, opts...)...), buf
}

func withSession(t *testing.T, r *http.Request) *http.Request {
	t.Helper()

	svc, err := session.NewStoreService(session.Config{
		Env:         wayfarer.Testing,
		SessionName: "resp-test",
		AuthKey:     testKey,
		EncryptKey:  testKey,
	})
	require.Nil(t, err)

	s, err := svc.GetSession(r)
	require.Nil(t, err)
	return r.WithContext(context.WithValue(r.Context(), wayfarer.SessionKey, s))
}

func withUser(r *http.Request, u wayfarer.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), wayfarer.CurrentUserKey, u))
}

func TestResponderDo(t *testing.T) {
	t.Run("Cancelled", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		ctx, cancel := context.WithCancel(r.Context())
		r = r.Clone(ctx)

		w := httptest.NewRecorder()
		w.WriteHeader(http.StatusPaymentRequired)

		cancel()

		d, _ := newResponder(t)

		// Act
		err := d.Json(w, r, resp.Code(http.StatusTeapot))

		// Assert
		require.ErrorIs(t, err, resp.ErrDone)
		require.Equal(t, http.StatusPaymentRequired, w.Code)
	})
}

func TestResponderCurrentUser(t *testing.T) {
	d, _ := newResponder(t)
	tcs := []struct {
		name        string
		ctx         context.Context
		expectedErr error
	}{
		{"Not-Set", context.Background(), resp.ErrNotFound},
		{"Wrong-Type", context.WithValue(context.Background(), wayfarer.CurrentUserKey, 9), resp.ErrNotFound},
		{"Nil-Pointer", context.WithValue(context.Background(), wayfarer.CurrentUserKey, (*wayfarer.User)(nil)), resp.ErrNotFound},
		{"Pointer", context.WithValue(context.Background(), wayfarer.CurrentUserKey, &traveller), nil},
		{"Value", context.WithValue(context.Background(), wayfarer.CurrentUserKey, traveller), nil},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := d.CurrentUser(tc.ctx)
			require.ErrorIs(t, err, tc.expectedErr)
			if tc.expectedErr == nil {
				require.Equal(t, traveller.ID, actual.ID)
			}
		})
	}
}

func TestWantsJSON(t *testing.T) {
	for _, tc := range []struct {
		name        string
		accept      string
		contentType string
		expected    bool
	}{
		{"Nothing", "", "", false},
		{"Browser", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", "", false},
		{"JSON", "application/json", "", true},
		{"JSON-First", "application/json, text/plain, */*", "", true},
		{"Wildcard", "*/*", "application/json", false},
		{"Content-Type", "", "application/json; charset=utf-8", true},
		{"Form", "", "application/x-www-form-urlencoded", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "http://example.com", nil)
			if tc.accept != "" {
				r.Header.Set("Accept", tc.accept)
			}

			if tc.contentType != "" {
				r.Header.Set("Content-Type", tc.contentType)
			}

			require.Equal(t, tc.expected, resp.WantsJSON(r))
		})
	}
}

func TestResponderErr(t *testing.T) {
	// Arrange
	d, buf := newResponder(t)
	r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	w := httptest.NewRecorder()

	// Act
	d.Err(w, r, errors.New("the seas are rough"))

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, buf.String(), "the seas are rough")
	require.NotContains(t, w.Body.String(), "the seas are rough")

	// Arrange
	w = httptest.NewRecorder()

	// Act
	d.Err(w, r, nil, resp.Code(http.StatusMethodNotAllowed))

	// Assert
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestResponderJson(t *testing.T) {
	tcs := []struct {
		name     string
		user     bool
		opts     []resp.Fn
		code     int
		expected string
	}{
		{"Default", false, nil, http.StatusOK, "{}\n"},
		{"Data", false, []resp.Fn{resp.Data(map[string]int{"trips": 2})}, http.StatusOK, `{"data":{"trips":2}}` + "\n"},
		{"Created-With-User", true, []resp.Fn{resp.Code(http.StatusCreated), resp.Data("ok")}, http.StatusCreated, ""},
		{"Error-Elides-User", true, []resp.Fn{resp.Code(http.StatusUnprocessableEntity), resp.Data("bad")}, http.StatusUnprocessableEntity, `{"data":"bad"}` + "\n"},
		{"No-Content", true, []resp.Fn{resp.Code(http.StatusNoContent)}, http.StatusNoContent, ""},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			d, _ := newResponder(t)
			r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
			if tc.user {
				r = withUser(r, traveller)
			}
			w := httptest.NewRecorder()

			// Act
			err := d.Json(w, r, tc.opts...)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.code, w.Code)

			switch {
			case tc.code == http.StatusNoContent:
				require.Zero(t, w.Body.Len())
			case tc.expected != "":
				require.Equal(t, "application/json; charset=UTF-8", w.Header().Get("Content-Type"))
				require.Equal(t, tc.expected, w.Body.String())
			default:
				m := make(map[string]any)
				require.Nil(t, json.Unmarshal(w.Body.Bytes(), &m))
				require.Equal(t, "ok", m["data"])
				u := m["currentUser"].(map[string]any)
				require.Equal(t, traveller.Email, u["email"])
				require.NotContains(t, u, "password")
			}
		})
	}
}

func TestResponderRedirect(t *testing.T) {
	tcs := []struct {
		name     string
		opts     []resp.Fn
		code     int
		location string
	}{
		{"Default", nil, http.StatusFound, "/"},
		{"URL", []resp.Fn{resp.URL("/update/")}, http.StatusFound, "/update/"},
		{"Param", []resp.Fn{resp.URL("/login/"), resp.Param("next", "/addTrip/")}, http.StatusFound, "/login/?next=%2FaddTrip%2F"},
		{"Client-Error", []resp.Fn{resp.Code(http.StatusNotFound)}, http.StatusSeeOther, "/"},
		{"Server-Error", []resp.Fn{resp.Code(http.StatusBadGateway)}, http.StatusTemporaryRedirect, "/"},
		{"Already-3xx", []resp.Fn{resp.Code(http.StatusMovedPermanently)}, http.StatusMovedPermanently, "/"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			d, _ := newResponder(t)
			r := httptest.NewRequest(http.MethodPost, "http://example.com/login/", nil)
			w := httptest.NewRecorder()

			// Act
			err := d.Redirect(w, r, tc.opts...)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}

	t.Run("Root-URL", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t, resp.WithRootURL("https://wayfarer.example.com/"))
		r := httptest.NewRequest(http.MethodPost, "http://example.com/login/", nil)
		w := httptest.NewRecorder()

		// Act
		err := d.Redirect(w, r, resp.URL("/update/"))

		// Assert
		require.Nil(t, err)
		require.Equal(t, "https://wayfarer.example.com/update/", w.Header().Get("Location"))
	})

	t.Run("Flash-Without-Session", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t)
		r := httptest.NewRequest(http.MethodPost, "http://example.com/login/", nil)
		w := httptest.NewRecorder()

		// Act
		err := d.Redirect(w, r, resp.Success("saved"))

		// Assert
		require.ErrorIs(t, err, resp.ErrNotFound)
	})
}

func TestResponderHtml(t *testing.T) {
	t.Run("Unauthed", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t)
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		w := httptest.NewRecorder()

		// Act
		err := d.Html(w, r, resp.Unauthed(), resp.Tmpls("tmpl/page.tmpl"), resp.Data("Where to?"))

		// Assert
		require.Nil(t, err)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "text/html; charset=UTF-8", w.Header().Get("Content-Type"))
		require.Contains(t, w.Body.String(), "<h1>Where to?</h1>")
		require.Contains(t, w.Body.String(), "Sign up")
	})

	t.Run("Authed", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t)
		r := withUser(httptest.NewRequest(http.MethodGet, "http://example.com", nil), traveller)
		w := httptest.NewRecorder()

		// Act
		err := d.Html(w, r, resp.Layout(), resp.Tmpls("tmpl/page.tmpl"), resp.Data("Welcome back"))

		// Assert
		require.Nil(t, err)
		require.Contains(t, w.Body.String(), "Ibn Battuta")
		require.Contains(t, w.Body.String(), "Add a trip")
	})

	t.Run("Code", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t)
		r := httptest.NewRequest(http.MethodGet, "http://example.com/nowhere", nil)
		w := httptest.NewRecorder()

		// Act
		err := d.Html(w, r, resp.Unauthed(), resp.Tmpls("tmpl/not_found.tmpl"), resp.Code(http.StatusNotFound))

		// Assert
		require.Nil(t, err)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Contains(t, w.Body.String(), "Lost at sea")
	})

	t.Run("Flashes", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t)
		r := withSession(t, httptest.NewRequest(http.MethodGet, "http://example.com", nil))
		w := httptest.NewRecorder()

		// Act
		err := d.Html(w, r, resp.Unauthed(), resp.Tmpls("tmpl/page.tmpl"), resp.Warn("mind the gap"))

		// Assert
		require.Nil(t, err)
		require.Contains(t, w.Body.String(), `class="flash flash-warning"`)
		require.Contains(t, w.Body.String(), "mind the gap")
	})

	t.Run("Props", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t)
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		r = r.WithContext(wayfarer.NewAppPropsContext(r.Context(), wayfarer.AppProps{"title": "Atlas"}))
		w := httptest.NewRecorder()

		// Act
		err := d.Html(w, r, resp.Unauthed(), resp.Tmpls("tmpl/page.tmpl"))

		// Assert
		require.Nil(t, err)
		require.Contains(t, w.Body.String(), "<title>Atlas</title>")
	})

	t.Run("Authed-Without-User", func(t *testing.T) {
		// Arrange
		d, buf := newResponder(t)
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		w := httptest.NewRecorder()

		// Act
		err := d.Html(w, r, resp.Authed(), resp.Tmpls("tmpl/page.tmpl"))

		// Assert
		require.ErrorIs(t, err, resp.ErrNoUser)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Contains(t, w.Body.String(), "Something went wrong")
		require.NotEmpty(t, buf.String())
	})

	t.Run("No-Templates", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t)
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		w := httptest.NewRecorder()

		// Act
		err := d.Html(w, r)

		// Assert
		require.ErrorIs(t, err, resp.ErrMissingData)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Execute-Error", func(t *testing.T) {
		// Arrange
		d, _ := newResponder(t, resp.WithContactErrMsg("Write to help@example.com"))
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		w := httptest.NewRecorder()

		// Act
		err := d.Html(w, r, resp.Unauthed(), resp.Tmpls("tmpl/broken.tmpl"), resp.Data(3))

		// Assert
		require.NotNil(t, err)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.True(t, strings.Contains(w.Body.String(), "Write to help@example.com"))
		require.NotContains(t, w.Body.String(), "<nav>")
	})
}

func TestResponderSession(t *testing.T) {
	// Arrange
	d, _ := newResponder(t)
	r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)

	// Act
	_, err := d.Session(r.Context())

	// Assert
	require.ErrorIs(t, err, resp.ErrNotFound)

	// Act
	_, err = d.Session(context.WithValue(r.Context(), wayfarer.SessionKey, "nope"))

	// Assert
	require.ErrorIs(t, err, resp.ErrInvalid)

	// Act
	_, err = d.Session(withSession(t, r).Context())

	// Assert
	require.Nil(t, err)
}
