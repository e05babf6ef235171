package template

import (
	html "html/template"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xy-planning-network/wayfarer"
)

// CurrentUser encloses some value representing a user.
// It returns "currentUser" as the name of the function for convenient passing to a template.FuncMap
// and returns a function returning the enclosed value when called.
func CurrentUser(u any) (string, func() any) {
	return "currentUser", func() any { return u }
}

// Env encloses some string representing an environment.
// It returns "env" as the name of the function for convenient passing to a template.FuncMap
// and returns a function returning the enclosed value when called.
func Env(e wayfarer.Environment) (string, func() string) {
	return "env", func() string { return e.String() }
}

// FormatDate returns "formatDate" as the name of the function for convenient passing to a template.FuncMap
// and returns a function writing a date in the layout forms accept.
// A nil or zero date renders as an empty string.
func FormatDate() (string, func(*time.Time) string) {
	return "formatDate", func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}

		return t.Format(wayfarer.DateLayout)
	}
}

// Nonce returns "nonce" as the name of the function for convenient passing to a template.FuncMap
// and returns a function generating a uuid.
func Nonce() (string, func() string) {
	return "nonce", func() string { return uuid.NewString() }
}

// RootURL encloses the *url.URL representing the base URL of the web app.
// It returns "rootURL" as the name of the function for convenient passing to a template.FuncMap
// and returns a function returning its *url.URL.String().
// If u is nil, that function will always return an empty string.
func RootURL(u *url.URL) (string, func() string) {
	if u == nil {
		return "rootURL", func() string { return "" }
	}

	s := strings.TrimSuffix(u.String(), "/")
	return "rootURL", func() string { return s }
}

// defaultFns are available to every template a Parser parses.
// Placeholders stand in for functions whose values are only known per request.
func defaultFns() html.FuncMap {
	fns := make(html.FuncMap)

	name, date := FormatDate()
	fns[name] = date

	name, nonce := Nonce()
	fns[name] = nonce

	name, user := CurrentUser(nil)
	fns[name] = user

	name, root := RootURL(nil)
	fns[name] = root

	name, env := Env("")
	fns[name] = env

	return fns
}
