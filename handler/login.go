package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/session"
	"github.com/xy-planning-network/wayfarer/travel"
)

// login signs a User in with a password, a magic link or through Google.
//
//	GET  /login/                    the login form
//	GET  /login/?token=<jwt>        a magic link
//	GET  /login/?provider=google    start signing in with Google
//	GET  /login/?code=..&state=..   Google sending the User back
//	POST /login/                    email and password
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.loginWithPassword(w, r)
		return
	}

	q := r.URL.Query()
	switch {
	case q.Get("token") != "":
		h.loginWithToken(w, r, q.Get("token"))
	case q.Has("state"):
		h.finishGoogle(w, r, q.Get("code"), q.Get("state"))
	case q.Get("provider") == "google" && h.googleEnabled():
		h.startGoogle(w, r)
	default:
		h.html(w, r, loginTmpl, h.loginPage(loginForm{Next: safeNext(q.Get("next"))}))
	}
}

func (h *Handler) loginPage(form loginForm) formPage {
	form.Password = ""
	return formPage{Form: form, Google: h.googleEnabled(), Next: form.Next}
}

func (h *Handler) loginWithPassword(w http.ResponseWriter, r *http.Request) {
	form := new(loginForm)
	if err := h.parser.Parse(r, form); err != nil {
		form.Next = safeNext(form.Next)
		h.invalid(w, r, loginTmpl, h.loginPage(*form), err)
		return
	}

	next := safeNext(form.Next)
	if next == "" {
		next = safeNext(r.URL.Query().Get("next"))
	}

	form.Next = next
	user, err := h.store.Authenticate(r.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, travel.ErrBadCreds):
		if resp.WantsJSON(r) {
			h.json(w, r, resp.Code(http.StatusUnauthorized), message(session.BadCredsMsg))
			return
		}

		h.html(
			w, r, loginTmpl, h.loginPage(*form),
			resp.Code(http.StatusUnauthorized),
			resp.Flash(session.Flash{Type: session.FlashError, Msg: session.BadCredsMsg}),
		)
		return
	case err != nil:
		h.fail(w, r, err, LoginPath)
		return
	}

	if next == "" {
		next = IndexPath
	}

	h.signIn(w, r, user, next, http.StatusOK)
}

func (h *Handler) loginWithToken(w http.ResponseWriter, r *http.Request, token string) {
	if h.auth == nil {
		h.badLink(w, r)
		return
	}

	email, err := h.auth.AuthenticateJWT(token)
	if err != nil {
		h.badLink(w, r)
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), email)
	switch {
	case errors.Is(err, wayfarer.ErrNotFound):
		h.badLink(w, r)
		return
	case err != nil:
		h.fail(w, r, err, LoginPath)
		return
	}

	next := safeNext(r.URL.Query().Get("next"))
	if next == "" {
		next = IndexPath
	}

	h.signIn(w, r, user, next, http.StatusOK)
}

// badLink responds to a magic link that is expired, tampered with or for nobody.
func (h *Handler) badLink(w http.ResponseWriter, r *http.Request) {
	if resp.WantsJSON(r) {
		h.json(w, r, resp.Code(http.StatusUnauthorized), message(session.BadLinkMsg))
		return
	}

	h.html(
		w, r, loginTmpl, h.loginPage(loginForm{}),
		resp.Code(http.StatusUnauthorized),
		resp.Flash(session.Flash{Type: session.FlashWarning, Msg: session.BadLinkMsg}),
	)
}

// startGoogle sends the User to Google,
// remembering the state Google must send back.
func (h *Handler) startGoogle(w http.ResponseWriter, r *http.Request) {
	s, err := h.Session(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	state := uuid.NewString()
	if err := s.SetState(w, r, state); err != nil {
		h.Err(w, r, err)
		return
	}

	h.redirect(w, r, resp.URL(h.auth.AuthCodeURL(state)), resp.Code(http.StatusSeeOther))
}

// finishGoogle signs in the User Google sent back,
// creating them when Google vouches for an email nobody has used yet.
func (h *Handler) finishGoogle(w http.ResponseWriter, r *http.Request, code, state string) {
	s, err := h.Session(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	expected, err := s.PopState(w, r)
	if err != nil || expected != state || code == "" || !h.googleEnabled() {
		h.googleFailed(w, r, session.ErrNoState)
		return
	}

	info, err := h.auth.FetchUser(r.Context(), code)
	if err != nil {
		h.googleFailed(w, r, err)
		return
	}

	user, err := h.store.FindOrCreateUser(r.Context(), info.Email, info.Name)
	if err != nil {
		h.fail(w, r, err, LoginPath)
		return
	}

	h.signIn(w, r, user, IndexPath, http.StatusOK)
}

func (h *Handler) googleFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.redirect(
		w, r,
		resp.Err(err),
		resp.Flash(session.Flash{Type: session.FlashWarning, Msg: session.GoogleFailedMsg}),
		resp.Code(http.StatusSeeOther),
		resp.URL(LoginPath),
	)
}

func (h *Handler) googleEnabled() bool { return h.auth != nil && h.auth.GoogleEnabled() }

// signIn registers user in the session and sends them to next.
// JSON clients get code and the User instead.
//
// Users whose access was revoked are turned away.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, user wayfarer.User, next string, code int) {
	if !user.HasAccess() {
		if resp.WantsJSON(r) {
			h.json(w, r, resp.Code(http.StatusForbidden), message(session.NoAccessMsg))
			return
		}

		h.redirect(w, r, resp.Warn(session.NoAccessMsg), resp.Code(http.StatusSeeOther), resp.URL(LoginPath))
		return
	}

	s, err := h.Session(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	if err := s.RegisterUser(w, r, user.ID); err != nil {
		h.Err(w, r, err)
		return
	}

	if resp.WantsJSON(r) {
		h.json(w, r, resp.Code(code), resp.User(user))
		return
	}

	h.redirect(w, r, resp.Code(http.StatusSeeOther), resp.URL(next))
}
