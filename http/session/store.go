package session

import (
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/boj/redistore"
	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/wayfarer"
)

const (
	defaultMaxAge = 7 * 24 * time.Hour
	redisPoolSize = 10
)

// A SessionStorer hands out the Session belonging to a request.
type SessionStorer interface {
	GetSession(r *http.Request) (Session, error)
}

var _ SessionStorer = Service{}

// A Service keeps sessions in a gorilla.Store, in cookies unless told otherwise.
type Service struct {
	env    wayfarer.Environment
	keys   [][]byte // authentication key, then encryption key
	maxAge time.Duration
	name   string
	store  gorilla.Store
}

// A Config provides the required values for a Service.
type Config struct {
	Env wayfarer.Environment

	// SessionName names the cookie sessions travel in.
	SessionName string

	// AuthKey signs sessions. Hex encoded.
	AuthKey string

	// EncryptKey encrypts sessions. Hex encoded.
	EncryptKey string
}

// keys decodes AuthKey and EncryptKey.
func (c Config) keys() ([][]byte, error) {
	if err := c.Env.Valid(); err != nil {
		return nil, fmt.Errorf("%w: %s", wayfarer.ErrBadConfig, err)
	}

	if c.SessionName == "" {
		return nil, fmt.Errorf("%w: SessionName cannot be empty", wayfarer.ErrBadConfig)
	}

	keys := make([][]byte, 0, 2)
	for _, k := range []struct{ name, hexed string }{
		{"authentication", c.AuthKey},
		{"encryption", c.EncryptKey},
	} {
		b, err := hex.DecodeString(k.hexed)
		if err != nil {
			return nil, fmt.Errorf("%w: %s key is not valid: %s", wayfarer.ErrBadConfig, k.name, err)
		}
		keys = append(keys, b)
	}

	return keys, nil
}

// NewStoreService builds a Service from cfg.
// Without an option like WithRedis choosing the backing storage, sessions are kept in cookies.
func NewStoreService(cfg Config, opts ...ServiceOpt) (Service, error) {
	keys, err := cfg.keys()
	if err != nil {
		return Service{}, err
	}

	gob.Register(Flash{})

	s := Service{env: cfg.Env, keys: keys, maxAge: defaultMaxAge, name: cfg.SessionName}
	for _, opt := range append(opts, withDefaultStore()) {
		if err := opt(&s); err != nil {
			return Service{}, err
		}
	}

	return s, nil
}

// GetSession loads the Session r carries, or starts a new one.
func (s Service) GetSession(r *http.Request) (Session, error) {
	session, err := s.store.Get(r, s.name)
	return Session{s: session}, err
}

// cookie sets up the cookie every backing store sends to the browser.
func (s Service) cookie() *gorilla.Options {
	return &gorilla.Options{
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		Secure:   s.env.SecureCookies(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// A ServiceOpt configures a Service while NewStoreService builds it.
type ServiceOpt func(*Service) error

// WithCookie keeps sessions in the cookie itself.
// Outside of tests, cookies are encrypted as well as signed.
func WithCookie() ServiceOpt {
	return func(s *Service) error {
		keys := s.keys
		if s.env.IsTesting() {
			keys = keys[:1]
		}

		c := gorilla.NewCookieStore(keys...)
		c.Options = s.cookie()
		c.MaxAge(c.Options.MaxAge)
		s.store = c
		return nil
	}
}

// WithMaxAge sets how long a session lasts, a week by default.
// Pass it ahead of options choosing a store.
func WithMaxAge(d time.Duration) ServiceOpt {
	return func(s *Service) error {
		if d < time.Second {
			return fmt.Errorf("%w: max age must be at least a second, got %s", wayfarer.ErrBadConfig, d)
		}

		s.maxAge = d
		return nil
	}
}

// WithRedis keeps sessions in database db of the Redis server at addr,
// leaving only their ID in the cookie.
// An empty pass skips authenticating.
func WithRedis(addr, pass string, db int) ServiceOpt {
	return func(s *Service) error {
		r, err := redistore.NewRediStoreWithDB(redisPoolSize, "tcp", addr, pass, strconv.Itoa(db), s.keys...)
		if err != nil {
			return fmt.Errorf("%w: failed connecting to Redis: %s", wayfarer.ErrBadConfig, err)
		}

		r.SetKeyPrefix(s.name + ":")
		r.Options = s.cookie()
		r.SetMaxAge(r.Options.MaxAge)
		s.store = r
		return nil
	}
}

// withDefaultStore falls back to WithCookie when no other option chose a store.
func withDefaultStore() ServiceOpt {
	return func(s *Service) error {
		if s.store != nil {
			return nil
		}

		return WithCookie()(s)
	}
}
