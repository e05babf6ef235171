package ranger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/handler"
	"github.com/xy-planning-network/wayfarer/logger"
	"github.com/xy-planning-network/wayfarer/postgres"
	"github.com/xy-planning-network/wayfarer/travel"
)

const shutdownTimeout = 5 * time.Second

// A Ranger wires every component of wayfarer to one another and runs its web server.
type Ranger struct {
	cfg     Config
	ctx     context.Context
	cancel  context.CancelFunc
	db      *postgres.DB
	handler http.Handler
	l       logger.Logger
	srv     *http.Server
	store   travel.Store
}

// New constructs a Ranger from cfg and the provided options.
// Options are applied first and defaults fill in whatever they leave unset.
//
// Unless WithStore is passed, New connects to Postgres and runs all migrations.
func New(cfg Config, opts ...RangerOption) (*Ranger, error) {
	r := &Ranger{cfg: cfg}
	followups := make([]OptFollowup, 0)

	// NOTE: some options need the router, which is only built once every option has run.
	// They return an OptFollowup called afterwards.
	for _, opt := range opts {
		fn, err := opt(r)
		if err != nil {
			return nil, err
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if r.ctx == nil {
		r.ctx, r.cancel = context.WithCancel(context.Background())
	}

	if r.l == nil {
		r.l = defaultAppLogger(cfg)
	}

	if r.store == nil {
		db, err := defaultDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: could not connect to the database: %s", ErrBadConfig, err)
		}

		r.db = db
		r.store = travel.NewService(db)
	}

	sessions, err := defaultSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: could not set up sessions: %s", ErrBadConfig, err)
	}

	a, err := defaultAuth(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: could not set up sign in: %s", ErrBadConfig, err)
	}

	var hopts []handler.Option
	if a != nil {
		hopts = append(hopts, handler.WithAuth(a))
		r.l.Debug(fmt.Sprintf("magic links enabled, Google sign in enabled: %t", a.GoogleEnabled()), nil)
	}

	if c := defaultIdempotencyCache(cfg); c != nil {
		hopts = append(hopts, handler.WithIdempotencyCache(c))
	}

	responder := defaultResponder(cfg, r.l, defaultParser(cfg))
	h := handler.New(responder, r.store, hopts...)
	r.handler = defaultRouter(cfg, defaultHTTPLogger(cfg), responder, sessions, r.store, h)

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}
	}

	if r.srv == nil {
		r.srv = defaultServer(r.ctx, cfg)
		r.srv.Handler = r.handler
	}

	return r, nil
}

// Handler exposes the router serving every page of wayfarer.
func (r *Ranger) Handler() http.Handler { return r.handler }

// Logger exposes the app logger.
func (r *Ranger) Logger() logger.Logger { return r.l }

// Guide begins the web server.
//
// These, canceling the context passed to WithContext, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGQUIT
// - syscall.SIGTERM
//
// If the server cannot listen, Guide returns that error.
func (r *Ranger) Guide() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)
	defer signal.Stop(ch)

	errs := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("could not listen: %w", err)
		}
	}()

	select {
	case s := <-ch:
		r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
	case <-r.ctx.Done():
	case err := <-errs:
		r.l.Error(err.Error(), &logger.LogContext{Error: err})
		r.close()
		return err
	}

	return r.Shutdown()
}

// Shutdown gracefully shuts down the web server, waiting at most five seconds for open requests,
// and closes the database connection.
func (r *Ranger) Shutdown() error {
	defer r.close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	if err := r.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}

// close releases what New acquired.
func (r *Ranger) close() {
	r.cancel()
	if r.db == nil {
		return
	}

	sqlDB, err := r.db.DB().DB()
	if err != nil {
		return
	}

	if err := sqlDB.Close(); err != nil {
		r.l.Warn("could not close database connection", &logger.LogContext{Error: err})
	}
}

// Migrate connects to Postgres, runs every pending migration and disconnects.
func Migrate(cfg Config) error {
	db, err := defaultDB(cfg)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB().DB()
	if err != nil {
		return fmt.Errorf("%w: %s", wayfarer.ErrUnexpected, err)
	}

	return sqlDB.Close()
}

// LoginLink constructs a URL signing in the user with email when followed within ttl.
//
// Without a JWT_KEY, ErrBadConfig returns.
func LoginLink(cfg Config, email string, ttl time.Duration) (string, error) {
	a, err := defaultAuth(cfg)
	if err != nil {
		return "", err
	}

	if a == nil {
		return "", fmt.Errorf("%w: %s is not set", ErrBadConfig, jwtKeyEnvVar)
	}

	token, err := a.IssueToken(email, ttl)
	if err != nil {
		return "", err
	}

	u := cfg.BaseURL.JoinPath(handler.LoginPath)
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
