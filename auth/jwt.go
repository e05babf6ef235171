package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// IssueToken signs a token naming email as its subject and expiring after ttl.
func (s *Service) IssueToken(email string, ttl time.Duration) (string, error) {
	if email == "" {
		return "", fmt.Errorf(`%w: email cannot be ""`, ErrNotValid)
	}

	if ttl <= 0 {
		return "", fmt.Errorf("%w: ttl must be positive", ErrNotValid)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	return signed, nil
}

// AuthenticateJWT verifies the token was issued by IssueToken and has not expired,
// returning the email it names.
//
// If token is empty, malformed, expired or signed otherwise, ErrNotValid returns.
func (s *Service) AuthenticateJWT(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: no token", ErrNotValid)
	}

	claims := new(jwt.RegisteredClaims)
	_, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotValid, err)
	}

	if !claims.VerifyIssuer(issuer, true) || claims.Subject == "" {
		return "", fmt.Errorf("%w: token not issued by %s", ErrNotValid, issuer)
	}

	return claims.Subject, nil
}
