package logger

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"

	"github.com/xy-planning-network/wayfarer"
)

const (
	callerTmpl    = "%s:%d"
	logContextKey = "log_context"
)

var _ slog.LogValuer = LogContext{}

// LogUser is the interface exposing attributes of a user to a LogContext.
type LogUser interface {
	// GetID retrieves the application's identifier for a user.
	GetID() uint

	// GetEmail retrieves the email address of the user.
	GetEmail() string
}

// A LogContext provides additional information and configuration
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the caller file and line number with the provided value.
	//
	// Caller helps goroutines identify the callers of the process that spawned it.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request

	// User is the user whose session was active during the logging event.
	User LogUser
}

// LogValue renders LogContext as a group of attributes,
// eliminating zero-value fields.
// Passwords in a Request's query or form are masked.
//
// LogValue implements [log/slog.LogValuer].
func (lc LogContext) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 5)
	if lc.Caller != "" {
		attrs = append(attrs, slog.String("caller", lc.Caller))
	}

	if lc.Data != nil {
		data := make([]any, 0, len(lc.Data))
		for k, v := range lc.Data {
			data = append(data, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("data", data...))
	}

	if lc.Error != nil {
		attrs = append(attrs, slog.String("error", lc.Error.Error()))
	}

	if lc.Request != nil {
		q := cloneValues(lc.Request.URL.Query())
		wayfarer.Mask(q, wayfarer.SecretParams...)
		u := *lc.Request.URL
		u.RawQuery = q.Encode()

		r := []any{
			slog.String("method", lc.Request.Method),
			slog.String("url", u.String()),
		}

		if lc.Request.PostForm != nil {
			form := cloneValues(lc.Request.PostForm)
			wayfarer.Mask(form, wayfarer.SecretParams...)
			r = append(r, slog.String("form", form.Encode()))
		}

		attrs = append(attrs, slog.Group("request", r...))
	}

	if lc.User != nil {
		u := make([]any, 0, 2)
		if id := lc.User.GetID(); id != 0 {
			u = append(u, slog.Uint64("id", uint64(id)))
		}

		if email := lc.User.GetEmail(); email != "" {
			u = append(u, slog.String("email", email))
		}

		if len(u) > 0 {
			attrs = append(attrs, slog.Group("user", u...))
		}
	}

	return slog.GroupValue(attrs...)
}

// CurrentCaller retrieves the caller for the caller of CurrentCaller,
// formatted for using as a value in LogContext.Caller.
//
//	myFunc() {		<- returns this caller
//		go func() {
//			CurrentCaller()
//		}()
//	}
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, truncPath(file), line)
}

func cloneValues(vals url.Values) url.Values {
	c := make(url.Values, len(vals))
	for k, v := range vals {
		c[k] = append([]string(nil), v...)
	}

	return c
}
