package ranger

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/auth"
	"github.com/xy-planning-network/wayfarer/handler"
	"github.com/xy-planning-network/wayfarer/http/middleware"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/router"
	"github.com/xy-planning-network/wayfarer/http/session"
	"github.com/xy-planning-network/wayfarer/http/template"
	"github.com/xy-planning-network/wayfarer/logger"
	"github.com/xy-planning-network/wayfarer/postgres"
	"github.com/xy-planning-network/wayfarer/travel"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const sessionMaxAge = 7 * 24 * time.Hour

var (
	sessionNameStrip = regexp.MustCompile(`[,':]`)
	sessionNameSpace = regexp.MustCompile(`\s`)
)

// defaultDB connects to a Postgres database
// and runs every migration travel.Store needs.
func defaultDB(cfg Config) (*postgres.DB, error) {
	return postgres.Connect(cfg.DB, travel.Migrations(), cfg.Env)
}

// defaultAuth constructs the [*auth.Service] signing users in without a password.
//
// Without a JWT_KEY, magic links and Google sign in are both off and nil returns.
func defaultAuth(cfg Config) (*auth.Service, error) {
	if cfg.JWTKey == "" {
		return nil, nil
	}

	return auth.NewService(auth.Config{
		JWTKey:       cfg.JWTKey,
		GoogleClient: cfg.GoogleClient,
		GoogleSecret: cfg.GoogleSecret,
		RedirectURL:  cfg.BaseURL.JoinPath(handler.LoginPath),
	})
}

// defaultIdempotencyCache keeps idempotent responses in Redis when configured.
// Otherwise, nil returns and responses are kept in memory.
func defaultIdempotencyCache(cfg Config) middleware.IdempotencyCacher {
	if cfg.Redis == nil {
		return nil
	}

	return middleware.NewRedisCache(cfg.Redis)
}

// defaultParser constructs a *template.Parser to be used
// when responding to HTTP requests with [*resp.Responder.Html].
//
// Beyond those every Parser has, defaultParser makes available these functions in an HTML template:
//
//   - "env"
//   - "rootURL"
func defaultParser(cfg Config) *template.Parser {
	return template.NewParser(
		[]fs.FS{handler.Views},
		template.WithFn(template.Env(cfg.Env)),
		template.WithFn(template.RootURL(cfg.BaseURL)),
	)
}

// defaultResponder configures the [*resp.Responder] to be used by http.Handlers.
func defaultResponder(cfg Config, l logger.Logger, p *template.Parser) *resp.Responder {
	args := []resp.ResponderOptFn{
		resp.WithAuthTemplate(template.AuthedTmpl),
		resp.WithContactErrMsg(fmt.Sprintf(session.ContactUsErr, cfg.ContactUs)),
		resp.WithCtxKeys(wayfarer.RequestIDKey),
		resp.WithEnv(cfg.Env),
		resp.WithErrTemplate(template.ErrTmpl),
		resp.WithLogger(l),
		resp.WithParser(p),
		resp.WithPartialsTemplate(template.PartialsTmpl),
		resp.WithRootURL(cfg.BaseURL.String()),
		resp.WithUnauthTemplate(template.UnauthedTmpl),
	}

	return resp.NewResponder(args...)
}

// defaultRouter constructs the [http.Handler] serving every page h has.
//
// Every request passes through, in order:
// panic reporting, rate limiting, HTTPS redirection, request IDs, IP addresses,
// request logging, app props, sessions and finally loading the current user.
// CORS headers are set for clients at the base URL.
func defaultRouter(
	cfg Config,
	httpLogger logger.Logger,
	responder *resp.Responder,
	sessions session.SessionStorer,
	store travel.Store,
	h *handler.Handler,
) http.Handler {
	route := router.New()
	route.OnEveryRequest(
		middleware.ReportPanic(cfg.Env),
		middleware.RateLimit(middleware.NewVisitors()),
		middleware.ForceHTTPS(cfg.Env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(httpLogger),
		middleware.InjectAppProps(wayfarer.AppProps{"title": cfg.AppTitle}),
		middleware.InjectSession(sessions),
		middleware.CurrentUser(responder, store.FindUser),
	)
	route.HandleRoutes(h.Routes())
	route.HandleNotFound(h.NotFound)
	route.MethodNotAllowed(h.MethodNotAllowed)

	return middleware.CORS(cfg.BaseURL.String())(route)
}

// defaultSessionStore constructs a SessionStorer to be used for storing session data.
//
// Sessions are named after APP_TITLE and kept in Redis when REDIS_URL is set,
// otherwise in cookies.
// Both SESSION_*_KEY env vars must be valid hex encoded values; cf. [encoding/hex].
func defaultSessionStore(cfg Config) (session.SessionStorer, error) {
	name := cases.Lower(language.English).String(cfg.AppTitle)
	name = sessionNameStrip.ReplaceAllString(name, "")
	name = sessionNameSpace.ReplaceAllString(name, "-")

	sc := session.Config{
		AuthKey:     cfg.SessionAuthKey,
		EncryptKey:  cfg.SessionEncryptKey,
		Env:         cfg.Env,
		SessionName: "wayfarer-" + name,
	}

	args := []session.ServiceOpt{session.WithMaxAge(sessionMaxAge)}
	if cfg.Redis != nil {
		args = append(args, session.WithRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	} else {
		args = append(args, session.WithCookie())
	}

	return session.NewStoreService(sc, args...)
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context, cfg Config) *http.Server {
	srv := &http.Server{
		Addr:         cfg.Addr,
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
