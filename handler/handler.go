package handler

import (
	"context"
	"embed"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/xy-planning-network/wayfarer/http/middleware"
	"github.com/xy-planning-network/wayfarer/http/req"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/router"
	"github.com/xy-planning-network/wayfarer/http/session"
	"github.com/xy-planning-network/wayfarer/travel"
	goauth2 "google.golang.org/api/oauth2/v2"
)

// Views holds the pages each handler renders.
// Pass it to template.NewParser so the Responder can find them.
//
//go:embed views/*
var Views embed.FS

const (
	addTripTmpl = "views/add_trip.tmpl"
	createTmpl  = "views/create.tmpl"
	indexTmpl   = "views/index.tmpl"
	landingTmpl = "views/landing.tmpl"
	loginTmpl   = "views/login.tmpl"
	updateTmpl  = "views/update.tmpl"
)

// Paths the Handler serves.
const (
	AddTripPath    = "/addTrip/"
	CreatePath     = "/create/"
	DeleteTripPath = "/deleteTrip/"
	IndexPath      = "/"
	LoginPath      = "/login/"
	UpdatePath     = "/update/"
)

// An Authenticator signs users in without a password.
//
// *auth.Service implements Authenticator.
type Authenticator interface {
	AuthCodeURL(state string) string
	AuthenticateJWT(token string) (string, error)
	FetchUser(ctx context.Context, code string) (*goauth2.Userinfo, error)
	GoogleEnabled() bool
}

// A Handler serves the pages of wayfarer.
type Handler struct {
	*resp.Responder

	auth   Authenticator
	idem   middleware.IdempotencyCacher
	parser *req.Parser
	store  travel.Store
}

// An Option configures a Handler.
type Option func(*Handler)

// WithAuth enables magic links and, if configured, Google sign in
// through the Authenticator.
func WithAuth(a Authenticator) Option {
	return func(h *Handler) {
		h.auth = a
	}
}

// WithIdempotencyCache sets where responses to requests carrying an Idempotency-Key are kept.
// Without it, responses are kept in memory.
func WithIdempotencyCache(c middleware.IdempotencyCacher) Option {
	return func(h *Handler) {
		h.idem = c
	}
}

// New constructs a *Handler responding through d and persisting through store.
func New(d *resp.Responder, store travel.Store, opts ...Option) *Handler {
	h := &Handler{Responder: d, parser: req.NewParser(), store: store}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Routes returns the table of every page the Handler serves.
// Each Route carries the middlewares controlling who may request it.
func (h *Handler) Routes() []router.Route {
	var (
		get     = []string{http.MethodGet}
		getPost = []string{http.MethodGet, http.MethodPost}
		post    = []string{http.MethodPost}

		authed   = middleware.RequireAuthed(LoginPath)
		unauthed = middleware.RequireUnauthed()
	)

	return []router.Route{
		{Name: "index", Path: IndexPath, Methods: get, Handler: h.index},
		{
			Name:        "create",
			Path:        CreatePath,
			Methods:     getPost,
			Handler:     h.create,
			Middlewares: []middleware.Adapter{unauthed},
		},
		{
			Name:        "login",
			Path:        LoginPath,
			Methods:     getPost,
			Handler:     h.login,
			Middlewares: []middleware.Adapter{unauthed},
		},
		{
			Name:        "update",
			Path:        UpdatePath,
			Methods:     getPost,
			Handler:     h.update,
			Middlewares: []middleware.Adapter{authed},
		},
		{
			Name:        "addTrip",
			Path:        AddTripPath,
			Methods:     getPost,
			Handler:     h.addTrip,
			Middlewares: []middleware.Adapter{authed, middleware.Idempotent(h.idem)},
		},
		{
			Name:        "deleteTrip",
			Path:        DeleteTripPath,
			Methods:     post,
			Handler:     h.deleteTrip,
			Middlewares: []middleware.Adapter{authed},
		},
	}
}

// A formPage is the data every form page renders with.
type formPage struct {
	Errors map[string]string
	Form   any

	// Login only
	Google bool
	Next   string
}

// fail responds to an unexpected error while handling a form.
// HTML clients are sent back to the form at path.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, path string) {
	if resp.WantsJSON(r) {
		h.json(w, r, resp.Err(err))
		return
	}

	h.redirect(w, r, resp.GenericErr(err), resp.Code(http.StatusSeeOther), resp.URL(path))
}

// html renders tmpl inside the layout matching whether a user is signed in.
//
// Errors are not returned since Html has already responded with the error page.
func (h *Handler) html(w http.ResponseWriter, r *http.Request, tmpl string, data any, opts ...resp.Fn) {
	_ = h.Html(w, r, append([]resp.Fn{resp.Tmpls(tmpl), resp.Layout(), resp.Data(data)}, opts...)...)
}

// invalid responds to a form that cannot be parsed or fails validation.
// HTML clients see the form again with what is wrong with each field.
func (h *Handler) invalid(w http.ResponseWriter, r *http.Request, tmpl string, page formPage, err error) {
	code := http.StatusBadRequest
	var data any
	var verrs req.ValidationErrors
	if errors.As(err, &verrs) {
		code = http.StatusUnprocessableEntity
		data = verrs
		page.Errors = verrs.Fields()
	}

	if resp.WantsJSON(r) {
		h.json(w, r, resp.Code(code), resp.Data(data))
		return
	}

	h.html(w, r, tmpl, page, resp.Code(code), resp.Flash(session.Flash{Type: session.FlashError, Msg: session.BadInputMsg}))
}

// json writes opts as JSON.
//
// Errors are not returned: either the client went away or Json has already responded.
func (h *Handler) json(w http.ResponseWriter, r *http.Request, opts ...resp.Fn) {
	_ = h.Json(w, r, opts...)
}

// redirect sends the client on, falling back to a bare error when no redirect can be built.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, opts ...resp.Fn) {
	if err := h.Redirect(w, r, opts...); err != nil {
		h.Err(w, r, err)
	}
}

// acceptsHTML asserts whether the client will take an HTML page.
func acceptsHTML(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}

		if mt == "text/html" || mt == "application/xhtml+xml" {
			return true
		}
	}

	return false
}

// message puts a single human readable message in a JSON response.
func message(msg string) resp.Fn {
	return resp.Data(map[string]string{"message": msg})
}

// safeNext returns next when it names a path on this site.
// Anything else, like "//evil.example" or "https://evil.example", becomes "".
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}

	return u.RequestURI()
}
