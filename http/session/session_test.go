package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer/http/session"
)

func TestSessionUser(t *testing.T) {
	// Arrange
	svc := newTestService(t)
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	w := httptest.NewRecorder()

	s, err := svc.GetSession(r)
	require.Nil(t, err)

	// Act
	id, err := s.UserID()

	// Assert
	require.ErrorIs(t, err, session.ErrNoUser)
	require.Zero(t, id)

	// Act
	require.Nil(t, s.RegisterUser(w, r, 7))
	s, err = svc.GetSession(carry(w))
	require.Nil(t, err)
	id, err = s.UserID()

	// Assert
	require.Nil(t, err)
	require.Equal(t, uint(7), id)

	// Arrange
	r = carry(w)
	w = httptest.NewRecorder()
	s, err = svc.GetSession(r)
	require.Nil(t, err)

	// Act
	require.Nil(t, s.DeregisterUser(w, r))
	s, err = svc.GetSession(carry(w))
	require.Nil(t, err)
	_, err = s.UserID()

	// Assert
	require.ErrorIs(t, err, session.ErrNoUser)
}

func TestSessionUserIDNotValid(t *testing.T) {
	// Arrange
	svc := newTestService(t)
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	w := httptest.NewRecorder()
	s, err := svc.GetSession(r)
	require.Nil(t, err)
	require.Nil(t, s.Set(w, r, "wayfarer-session-user", "seven"))

	// Act
	_, err = s.UserID()

	// Assert
	require.ErrorIs(t, err, session.ErrNotValid)
}

func TestSessionFlashes(t *testing.T) {
	// Arrange
	svc := newTestService(t)
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	w := httptest.NewRecorder()
	s, err := svc.GetSession(r)
	require.Nil(t, err)

	flash := session.Flash{Type: session.FlashSuccess, Msg: session.TripAddedMsg}

	// Act
	require.Nil(t, s.SetFlash(w, r, flash))

	r = carry(w)
	w = httptest.NewRecorder()
	s, err = svc.GetSession(r)
	require.Nil(t, err)

	// Assert
	require.Equal(t, []session.Flash{flash}, s.Flashes(w, r))
	require.Empty(t, s.Flashes(w, r))

	s, err = svc.GetSession(carry(w))
	require.Nil(t, err)
	require.Empty(t, s.Flashes(w, r))
}

func TestSessionState(t *testing.T) {
	// Arrange
	svc := newTestService(t)
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	w := httptest.NewRecorder()
	s, err := svc.GetSession(r)
	require.Nil(t, err)

	// Act
	_, err = s.PopState(w, r)

	// Assert
	require.ErrorIs(t, err, session.ErrNoState)

	// Act
	require.Nil(t, s.SetState(w, r, "abc123"))
	r = carry(w)
	w = httptest.NewRecorder()
	s, err = svc.GetSession(r)
	require.Nil(t, err)
	state, err := s.PopState(w, r)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "abc123", state)

	_, err = s.PopState(w, r)
	require.ErrorIs(t, err, session.ErrNoState)
}
