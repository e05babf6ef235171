package resp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/session"
	"github.com/xy-planning-network/wayfarer/http/template"
	"github.com/xy-planning-network/wayfarer/logger"
)

const (
	htmlType = "text/html; charset=UTF-8"
	jsonType = "application/json; charset=UTF-8"
)

// A Responder writes the three kinds of response wayfarer sends:
// rendered HTML, JSON and redirects.
//
// One Responder serves the whole app.
// Each call takes Fn options tailoring the response to the request at hand.
type Responder struct {
	logger logger.Logger
	parser *template.Parser

	// pool holds buffers responses render into before anything is written.
	pool *sync.Pool

	contactErrMsg string
	env           wayfarer.Environment

	// rootURL is where redirects resolve from and fall back to.
	rootURL *url.URL

	// ctxKeys name request context values templates see under .Props.
	ctxKeys []wayfarer.Key

	templates struct {
		authed   string // layout for signed in users
		err      string // page shown when nothing else can render
		partials string // blocks shared by both layouts
		unauthed string // layout for everyone else
	}
}

// NewResponder constructs a *Responder.
// Without options it logs through logger.New, roots at "/" and cannot render HTML.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		env:     wayfarer.Development,
		pool:    &sync.Pool{New: func() any { return new(bytes.Buffer) }},
		rootURL: &url.URL{Path: "/"},
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New(nil)
	}

	if d.parser != nil {
		d.parser = d.parser.AddFn(template.RootURL(d.rootURL)).AddFn(template.Env(d.env))
	}

	return d
}

// WantsJSON asserts whether the client would rather have JSON than HTML.
// The first of the two the Accept header names wins.
// Without an Accept header, a JSON request body means a JSON reply.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		return mt == "application/json"
	}

	for _, part := range strings.Split(accept, ",") {
		switch mt, _, _ := mime.ParseMediaType(strings.TrimSpace(part)); mt {
		case "application/json":
			return true
		case "text/html", "application/xhtml+xml":
			return false
		}
	}

	return false
}

// CurrentUser returns the User signed in for the request ctx belongs to.
// With nobody signed in, ErrNotFound returns.
func (doer Responder) CurrentUser(ctx context.Context) (wayfarer.User, error) {
	switch u := ctx.Value(wayfarer.CurrentUserKey).(type) {
	case wayfarer.User:
		return u, nil
	case *wayfarer.User:
		if u != nil {
			return *u, nil
		}
	}

	return wayfarer.User{}, fmt.Errorf("%w: nothing under %s", ErrNotFound, wayfarer.CurrentUserKey)
}

// Session returns the session.Session for the request ctx belongs to.
// Without one, ErrNotFound returns.
func (doer Responder) Session(ctx context.Context) (session.Session, error) {
	switch s := ctx.Value(wayfarer.SessionKey).(type) {
	case session.Session:
		return s, nil
	case nil:
		return session.Session{}, fmt.Errorf("%w: nothing under %s", ErrNotFound, wayfarer.SessionKey)
	default:
		return session.Session{}, fmt.Errorf("%w: %s holds %T", ErrInvalid, wayfarer.SessionKey, s)
	}
}

// Err logs err and writes a bare status text response, 500 unless Code said otherwise.
//
// Reach for it only when neither Html nor Redirect can respond.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	rr, nested := doer.do(w, r, append([]Fn{Err(err)}, opts...)...)
	if nested != nil {
		doer.logger.Error("unable to apply options", &logger.LogContext{Error: nested, Request: r})
	}

	code := http.StatusInternalServerError
	if rr != nil && rr.code != 0 {
		code = rr.code
	}

	http.Error(w, http.StatusText(code), code)
}

// Html renders the templates gathered by Tmpls, Layout, Authed or Unauthed
// with whatever Data set, plus any flashes queued in the session.
// Templates see .Data, .Flashes and .Props.
//
// Anything going wrong renders the error page instead and returns the error.
func (doer *Responder) Html(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	switch {
	case err != nil:
		return doer.htmlErr(w, r, err)
	case doer.parser == nil:
		return doer.htmlErr(w, r, fmt.Errorf("%w: no parser configured", ErrBadConfig))
	case len(rr.tmpls) == 0:
		return doer.htmlErr(w, r, fmt.Errorf("%w: no templates to render", ErrMissingData))
	}

	// The authed layout assumes a user, even when it arrived through Tmpls alone.
	if rr.tmpls[0] == doer.templates.authed {
		if err := populateUser(*doer, rr); err != nil {
			return doer.htmlErr(w, r, err)
		}
	}

	p := doer.parser
	if rr.user != nil {
		p = p.AddFn(template.CurrentUser(*rr.user))
	}

	tmpl, err := p.Parse(rr.tmpls...)
	if err != nil {
		return doer.htmlErr(w, r, fmt.Errorf("cannot parse: %w", err))
	}

	page := struct {
		Data    any
		Flashes []session.Flash
		Props   map[string]any
	}{Data: rr.data, Props: doer.props(r.Context())}

	s, err := doer.Session(r.Context())
	switch {
	case err == nil:
		page.Flashes = s.Flashes(w, r)
	case !errors.Is(err, ErrNotFound):
		return doer.htmlErr(w, r, fmt.Errorf("can't retrieve session: %w", err))
	}

	b, done := doer.buffer()
	defer done()

	if err := tmpl.ExecuteTemplate(b, path.Base(rr.tmpls[0]), page); err != nil {
		return doer.htmlErr(w, r, err)
	}

	return render(w, rr.status(http.StatusOK), htmlType, b)
}

// Json writes Data, and on 2xx codes the signed in User, as JSON:
//
//	{
//		"currentUser": {},
//		"data": {}
//	}
//
// Empty members are left out. 204 writes no body at all.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	code := rr.status(http.StatusOK)
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return nil
	}

	payload := struct {
		D any `json:"data,omitempty"`
		U any `json:"currentUser,omitempty"`
	}{D: rr.data}

	if code >= http.StatusOK && code < http.StatusMultipleChoices && populateUser(*doer, rr) == nil {
		payload.U = rr.user
	}

	b, done := doer.buffer()
	defer done()

	if err := json.NewEncoder(b).Encode(payload); err != nil {
		doer.Err(w, r, err)
		return err
	}

	return render(w, code, jsonType, b)
}

// Redirect sends the client to the URL set by URL, or the root URL without one.
//
// Code picks the status as long as it is a 3xx.
// Client error codes become 303, server error codes 307 and anything else 302.
func (doer *Responder) Redirect(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, append([]Fn{ToRoot()}, opts...)...)
	if err != nil {
		return err
	}

	if rr.url == nil {
		return fmt.Errorf("%w: cannot redirect, no resp.url", ErrMissingData)
	}

	http.Redirect(w, r, rr.url.String(), redirectCode(rr.code))
	return nil
}

func redirectCode(code int) int {
	switch {
	case code >= http.StatusMultipleChoices && code <= http.StatusPermanentRedirect:
		return code
	case code >= http.StatusBadRequest && code < http.StatusInternalServerError:
		return http.StatusSeeOther
	case code >= http.StatusInternalServerError:
		return http.StatusTemporaryRedirect
	default:
		return http.StatusFound
	}
}

// do builds a *Response out of opts.
//
// Options relying on another, like Param on URL, ought to come after it.
// Out of order options are retried until none are left,
// or a pass over the rest changes nothing.
// The errors of that last pass are joined together.
func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	rr := &Response{w: w, r: r, tmpls: make([]string, 0)}

	var errs []error
	for pending := opts; len(pending) > 0; {
		if err := r.Context().Err(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDone, err)
		}

		var retry []Fn
		errs = errs[:0]
		for _, opt := range pending {
			if err := opt(*doer, rr); err != nil {
				retry = append(retry, opt)
				errs = append(errs, err)
			}
		}

		if len(retry) == len(pending) {
			break
		}
		pending = retry
	}

	return rr, errors.Join(errs...)
}

// htmlErr logs err and renders the error page in its place.
// Details of err are shown in development only.
func (doer *Responder) htmlErr(w http.ResponseWriter, r *http.Request, err error) error {
	doer.logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r})

	bare := func(cause error) error {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return cause
	}

	if doer.templates.err == "" || doer.parser == nil {
		return bare(fmt.Errorf("%w: no error template provided, encountered while handling: %s", ErrBadConfig, err))
	}

	tmpl, nested := doer.parser.Parse(doer.templates.err)
	if nested != nil {
		return bare(fmt.Errorf("%w: %s", nested, err))
	}

	data := map[string]any{"Contact": doer.contactErrMsg}
	if doer.env.IsDevelopment() {
		data["Error"] = err.Error()
	}

	b, done := doer.buffer()
	defer done()

	if nested = tmpl.Execute(b, data); nested != nil {
		return bare(fmt.Errorf("%w: %s", nested, err))
	}

	_ = render(w, http.StatusInternalServerError, htmlType, b)
	return err
}

// buffer borrows an empty buffer from the pool until done is called.
func (doer *Responder) buffer() (b *bytes.Buffer, done func()) {
	b = doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	return b, func() { doer.pool.Put(b) }
}

func render(w http.ResponseWriter, code int, contentType string, b *bytes.Buffer) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	_, err := b.WriteTo(w)
	return err
}

// layout puts base and the partials template first,
// dropping any layout tmpls already start with.
func (doer Responder) layout(base string, tmpls []string) []string {
	out := []string{base}
	if doer.templates.partials != "" {
		out = append(out, doer.templates.partials)
	}

	for _, t := range tmpls {
		switch t {
		case doer.templates.authed, doer.templates.unauthed, doer.templates.partials:
		default:
			out = append(out, t)
		}
	}

	return out
}

// props merges the AppProps in ctx with the values of the Responder's ctxKeys.
func (doer Responder) props(ctx context.Context) map[string]any {
	props := make(map[string]any)
	for k, v := range wayfarer.AppPropsFromContext(ctx) {
		props[k] = v
	}

	for _, k := range doer.ctxKeys {
		if val := ctx.Value(k); val != nil {
			props[string(k)] = val
		}
	}

	return props
}
