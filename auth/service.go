package auth

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const issuer = "wayfarer"

// An AuthService signs users in without a password.
type AuthService interface {
	AuthCodeURL(state string) string
	AuthenticateJWT(token string) (string, error)
	GoogleEnabled() bool
	IssueToken(email string, ttl time.Duration) (string, error)
}

var _ AuthService = new(Service)

// Service is an implementation of the AuthService interface defined in this package.
type Service struct {
	config *oauth2.Config
	key    []byte
	now    func() time.Time
	opts   []option.ClientOption
	parser *jwt.Parser
}

// A Config provides the values a Service needs.
// Google sign in is enabled when both GoogleClient and GoogleSecret are set.
type Config struct {
	JWTKey       string
	GoogleClient string
	GoogleSecret string

	// Where Google redirects users after signing in.
	RedirectURL *url.URL
}

// NewService constructs a *Service from the Config.
//
// If no JWTKey is set, or only one of GoogleClient and GoogleSecret is set, ErrNotValid returns.
func NewService(cfg Config) (*Service, error) {
	if cfg.JWTKey == "" {
		return nil, fmt.Errorf(`%w: JWTKey cannot be ""`, ErrNotValid)
	}

	if (cfg.GoogleClient == "") != (cfg.GoogleSecret == "") {
		return nil, fmt.Errorf("%w: GoogleClient and GoogleSecret must be set together", ErrNotValid)
	}

	s := &Service{
		key:    []byte(cfg.JWTKey),
		now:    time.Now,
		parser: &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}},
	}

	if cfg.GoogleClient != "" {
		s.config = &oauth2.Config{
			ClientID:     cfg.GoogleClient,
			ClientSecret: cfg.GoogleSecret,
			Scopes:       []string{goauth2.UserinfoEmailScope, goauth2.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		}

		if cfg.RedirectURL != nil {
			s.config.RedirectURL = cfg.RedirectURL.String()
		}
	}

	return s, nil
}

// GoogleEnabled asserts whether the Service can sign users in with Google.
func (s *Service) GoogleEnabled() bool { return s.config != nil }
