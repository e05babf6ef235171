package resp

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/session"
	"github.com/xy-planning-network/wayfarer/logger"
)

// A Fn tailors the Response a Responder method is building.
type Fn func(Responder, *Response) error

// A Response gathers what the Fn options passed to a Responder method set.
type Response struct {
	w     http.ResponseWriter
	r     *http.Request
	code  int
	data  any
	tmpls []string
	url   *url.URL
	user  *wayfarer.User
}

// status returns the code set on the Response, or def without one.
func (r *Response) status(def int) int {
	if r.code == 0 {
		return def
	}

	return r.code
}

// **************************************************************************
// Status and body
// **************************************************************************

// Code sets the status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data sets what Html hands templates as .Data and Json writes under "data".
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// User sets the User rendering the page.
// Json writes it under "currentUser".
func User(u wayfarer.User) Fn {
	return func(_ Responder, r *Response) error {
		r.user = &u
		return nil
	}
}

// Err logs e, if any, and sets the status code to 500.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e != nil {
			d.logger.Error(e.Error(), newLogContext(r, e))
		}

		r.code = http.StatusInternalServerError
		return nil
	}
}

// **************************************************************************
// Templates
// **************************************************************************

// Tmpls adds templates for Html to render, after any layout.
func Tmpls(fps ...string) Fn {
	return func(_ Responder, r *Response) error {
		r.tmpls = append(r.tmpls, fps...)
		return nil
	}
}

// Authed renders inside the signed in layout, for the User in the request context.
//
// With nobody signed in, ErrNoUser returns.
// A Responder built without WithAuthTemplate returns ErrBadConfig.
func Authed() Fn {
	return func(d Responder, r *Response) error {
		if d.templates.authed == "" {
			return fmt.Errorf("%w: no authed tmpl", ErrBadConfig)
		}

		if err := populateUser(d, r); err != nil {
			return err
		}

		r.tmpls = d.layout(d.templates.authed, r.tmpls)
		return nil
	}
}

// Unauthed renders inside the signed out layout, replacing the signed in one if set.
//
// A Responder built without WithUnauthTemplate returns ErrBadConfig.
func Unauthed() Fn {
	return func(d Responder, r *Response) error {
		if d.templates.unauthed == "" {
			return fmt.Errorf("%w: no unauthed tmpl", ErrBadConfig)
		}

		r.tmpls = d.layout(d.templates.unauthed, r.tmpls)
		return nil
	}
}

// Layout picks Authed when someone is signed in and Unauthed otherwise.
func Layout() Fn {
	return func(d Responder, r *Response) error {
		if populateUser(d, r) != nil {
			return Unauthed()(d, r)
		}

		return Authed()(d, r)
	}
}

// **************************************************************************
// Redirects
// **************************************************************************

// URL sets where Redirect sends the client.
// Paths resolve against the Responder's root URL.
func URL(u string) Fn {
	return func(d Responder, r *Response) error {
		parsed, err := url.ParseRequestURI(u)
		if err != nil {
			return fmt.Errorf("%w: u is not a valid URL: %v", ErrInvalid, err)
		}

		r.url = d.rootURL.ResolveReference(parsed)
		return nil
	}
}

// ToRoot sends the client to the Responder's root URL.
func ToRoot() Fn {
	return func(d Responder, r *Response) error {
		root := *d.rootURL
		r.url = &root
		return nil
	}
}

// Param adds a query parameter to the URL Redirect sends the client to.
// URL or ToRoot must come first, otherwise ErrMissingData returns.
func Param(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		if r.url == nil {
			return fmt.Errorf("%w: URL() has not been called", ErrMissingData)
		}

		q := r.url.Query()
		q.Add(key, val)
		r.url.RawQuery = q.Encode()
		return nil
	}
}

// **************************************************************************
// Flashes
// **************************************************************************

// Flash queues flash in the session for the next page rendered.
func Flash(flash session.Flash) Fn {
	return func(d Responder, r *Response) error {
		s, err := d.Session(r.r.Context())
		if err != nil {
			return err
		}

		return s.SetFlash(r.w, r.r, flash)
	}
}

// Success flashes msg as a session.FlashSuccess.
func Success(msg string) Fn {
	return func(d Responder, r *Response) error {
		return Flash(session.Flash{Type: session.FlashSuccess, Msg: msg})(d, r)
	}
}

// Warn logs msg and flashes it as a session.FlashWarning.
func Warn(msg string) Fn {
	return func(d Responder, r *Response) error {
		d.logger.Warn(msg, newLogContext(r, nil))
		return Flash(session.Flash{Type: session.FlashWarning, Msg: msg})(d, r)
	}
}

// GenericErr is Err followed by a flash telling the user something went wrong,
// worded by WithContactErrMsg or else session.DefaultErrMsg.
func GenericErr(e error) Fn {
	return func(d Responder, r *Response) error {
		if err := Err(e)(d, r); err != nil {
			return err
		}

		msg := d.contactErrMsg
		if msg == "" {
			msg = session.DefaultErrMsg
		}

		return Flash(session.Flash{Type: session.FlashError, Msg: msg})(d, r)
	}
}

// newLogContext describes the request r answers, and err, for a log entry.
func newLogContext(r *Response, err error) *logger.LogContext {
	lc := &logger.LogContext{Error: err, Request: r.r}
	if r.user != nil {
		lc.User = r.user
	}

	if id, ok := r.r.Context().Value(wayfarer.RequestIDKey).(string); ok {
		lc.Data = map[string]any{"requestId": id}
	}

	return lc
}

// populateUser copies the User signed in for the request into r,
// unless one is set already.
func populateUser(d Responder, r *Response) error {
	if r.user != nil {
		return nil
	}

	u, err := d.CurrentUser(r.r.Context())
	if err != nil {
		return ErrNoUser
	}

	r.user = &u
	return nil
}
