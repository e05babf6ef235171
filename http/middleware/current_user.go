package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/session"
)

// UserStorer defines how to retrieve a User by an ID in the context of middleware.
type UserStorer func(ctx context.Context, id uint) (wayfarer.User, error)

// CurrentUser pulls the User out of the session.Session stored in the *http.Request.Context
// and stores it under wayfarer.CurrentUserKey.
//
// A *resp.Responder is needed to handle cases a CurrentUser cannot be retrieved or does not have access.
// JSON clients receive 401, others are redirected to the Responder's root URL.
//
// Users whose access was revoked are logged out.
func CurrentUser(d *resp.Responder, storer UserStorer) Adapter {
	if d == nil || storer == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := r.Context().Value(wayfarer.SessionKey).(session.Session)
			if !ok {
				handleErr(w, r, http.StatusUnauthorized, d, nil)
				return
			}

			uid, err := s.UserID()
			if err != nil {
				// NOTE: there is no User in the session,
				// request may be accessing an unauthenticated endpoint,
				// something for access control middlewares to determine
				handler.ServeHTTP(w, r)
				return
			}

			user, err := storer(r.Context(), uid)
			if err != nil {
				if err := s.Delete(w, r); err != nil {
					handleErr(w, r, http.StatusInternalServerError, d, err)
					return
				}

				handleErr(w, r, http.StatusUnauthorized, d, err)
				return
			}

			if !user.HasAccess() {
				s.ClearFlashes(w, r)
				if err := s.DeregisterUser(w, r); err != nil {
					handleErr(w, r, http.StatusInternalServerError, d, err)
					return
				}

				handleErr(w, r, http.StatusUnauthorized, d, nil, resp.Warn(session.NoAccessMsg))
				return
			}

			if err := s.ResetExpiry(w, r); err != nil {
				_ = s.Delete(w, r)
				handleErr(w, r, http.StatusInternalServerError, d, err)
				return
			}

			w.Header().Add("Cache-Control", "no-store")
			w.Header().Add("Pragma", "no-cache")

			ctx := context.WithValue(r.Context(), wayfarer.CurrentUserKey, user)
			handler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUnauthed returns a middleware.Adapter that checks whether a user is authenticated
// and requires they not be authenticated.
// When they are not authenticated, RequireUnauthed hands off to the next part of the middleware chain.
//
// Authenticated means a User is set in the request context under wayfarer.CurrentUserKey.
//
// When the User is authenticated, JSON clients receive 400
// and others are redirected to the User's HomePath.
func RequireUnauthed() Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cu, ok := r.Context().Value(wayfarer.CurrentUserKey).(wayfarer.User); ok {
				if resp.WantsJSON(r) {
					w.WriteHeader(http.StatusBadRequest)
					return
				}

				http.Redirect(w, r, cu.HomePath(), http.StatusSeeOther)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// RequireAuthed returns a middleware.Adapter that checks whether a User is authenticated,
// and requires they be authenticated.
// When the User is authenticated, then RequireAuthed hands off to the next part of the middleware chain.
//
// When the User is not authenticated, JSON clients receive 401
// and others are redirected to loginURL.
//
// The URL originally requested is appended as a "next" query param
// when the request method is GET.
func RequireAuthed(loginURL string) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(wayfarer.CurrentUserKey).(wayfarer.User); !ok {
				if resp.WantsJSON(r) {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}

				u := loginURL
				if r.Method == http.MethodGet {
					u += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}

				http.Redirect(w, r, u, http.StatusSeeOther)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// handleErr helps CurrentUser error paths by writing responses reflecting the
// "Accept" type of the *http.Request.
func handleErr(w http.ResponseWriter, r *http.Request, code int, d *resp.Responder, err error, opts ...resp.Fn) {
	if resp.WantsJSON(r) {
		_ = d.Json(w, r, resp.Err(err), resp.Code(code))
		return
	}

	if err := d.Redirect(w, r, append([]resp.Fn{resp.Err(err), resp.Code(code)}, opts...)...); err != nil {
		d.Err(w, r, err)
	}
}
