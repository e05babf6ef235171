package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// AuthCodeURL returns the URL of Google's consent page,
// which redirects back with state.
//
// If Google sign in is not enabled, AuthCodeURL returns an empty string.
func (s *Service) AuthCodeURL(state string) string {
	if !s.GoogleEnabled() {
		return ""
	}

	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// FetchUser exchanges code for a token and fetches the profile of the user it belongs to.
//
// If the user has not verified their email with Google, ErrNotValid returns.
func (s *Service) FetchUser(ctx context.Context, code string) (*goauth2.Userinfo, error) {
	if !s.GoogleEnabled() {
		return nil, fmt.Errorf("%w: google sign in is not configured", ErrNotImplemented)
	}

	if code == "" {
		return nil, fmt.Errorf("%w: no code", ErrNotValid)
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed exchanging code: %s", ErrNotValid, err)
	}

	opts := append([]option.ClientOption{option.WithTokenSource(s.config.TokenSource(ctx, token))}, s.opts...)
	service, err := goauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	user, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed fetching user: %s", ErrUnexpected, err)
	}

	if user.VerifiedEmail == nil || !*user.VerifiedEmail {
		return nil, fmt.Errorf("%w: %s is not verified", ErrNotValid, user.Email)
	}

	return user, nil
}
