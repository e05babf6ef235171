package resp

import (
	"net/url"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/template"
	"github.com/xy-planning-network/wayfarer/logger"
)

// A ResponderOptFn mutates the provided *Responder in some way.
// A ResponderOptFn is used when constructing a new Responder.
type ResponderOptFn func(*Responder)

// WithAuthTemplate sets the template identified by the filepath to use for rendering
// when a user is authenticated.
//
// Authed requires this option.
func WithAuthTemplate(fp string) ResponderOptFn {
	return func(d *Responder) {
		d.templates.authed = fp
	}
}

// WithContactErrMsg sets the error message to use for error Flashes.
//
// We recommend using session.ContactUsErr as a template.
func WithContactErrMsg(msg string) ResponderOptFn {
	return func(d *Responder) {
		d.contactErrMsg = msg
	}
}

// WithCtxKeys sets the keys whose values are pulled out of the *http.Request.Context
// and handed to templates under .Props.
//
// Zero-value and duplicate keys are dropped.
func WithCtxKeys(keys ...wayfarer.Key) ResponderOptFn {
	return func(d *Responder) {
		d.ctxKeys = wayfarer.ByKey(keys).UniqueSort()
	}
}

// WithEnv sets the environment the Responder renders within.
//
// Outside of development, error details are not rendered on the error page.
func WithEnv(env wayfarer.Environment) ResponderOptFn {
	return func(d *Responder) {
		d.env = env
	}
}

// WithErrTemplate sets the template identified by the filepath to use for rendering
// when an unexpected, unhandled error occurs while rendering HTML.
func WithErrTemplate(fp string) ResponderOptFn {
	return func(d *Responder) {
		d.templates.err = fp
	}
}

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
//
// If no Logger is provided through this option, logger.New configures one.
func WithLogger(log logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = log
	}
}

// WithParser sets the *template.Parser to use for parsing HTML templates.
func WithParser(p *template.Parser) ResponderOptFn {
	return func(d *Responder) {
		d.parser = p
	}
}

// WithPartialsTemplate sets the template identified by the filepath
// defining the pieces shared by the authed and unauthed templates.
func WithPartialsTemplate(fp string) ResponderOptFn {
	return func(d *Responder) {
		d.templates.partials = fp
	}
}

// WithRootURL sets the provided URL after parsing it into a *url.URL to use for rendering and redirecting.
//
// NOTE: If u fails parsing by url.ParseRequestURI, the root URL remains "/".
func WithRootURL(u string) ResponderOptFn {
	good, err := url.ParseRequestURI(u)
	return func(d *Responder) {
		if err == nil {
			d.rootURL = good
		}
	}
}

// WithUnauthTemplate sets the template identified by the filepath to use for rendering
// when a user is not authenticated.
//
// Unauthed requires this option.
func WithUnauthTemplate(fp string) ResponderOptFn {
	return func(d *Responder) {
		d.templates.unauthed = fp
	}
}
