package session

import (
	"net/http"

	gorilla "github.com/gorilla/sessions"
)

// Keys wayfarer stores values under in a session.
const (
	userKey  = "wayfarer-session-user"
	stateKey = "wayfarer-session-oauth-state"
)

// A Session is the gorilla.Session a request carries.
// Every method changing it saves it right away.
type Session struct {
	s *gorilla.Session
}

// Delete ends the session, telling the browser to drop its cookie.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.save(w, r)
}

// ResetExpiry restarts the session's max age.
func (s Session) ResetExpiry(w http.ResponseWriter, r *http.Request) error { return s.save(w, r) }

// Set stores val under key.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.save(w, r)
}

// RegisterUser signs the User with id into the session.
func (s Session) RegisterUser(w http.ResponseWriter, r *http.Request, id uint) error {
	return s.Set(w, r, userKey, id)
}

// DeregisterUser signs the User out of the session, keeping the rest of it.
func (s Session) DeregisterUser(w http.ResponseWriter, r *http.Request) error {
	delete(s.s.Values, userKey)
	return s.save(w, r)
}

// UserID returns the ID RegisterUser stored.
//
// Without one, ErrNoUser returns.
// Anything but a uint under the key returns ErrNotValid.
func (s Session) UserID() (uint, error) {
	val, ok := s.s.Values[userKey]
	if !ok {
		return 0, ErrNoUser
	}

	id, ok := val.(uint)
	if !ok {
		return 0, ErrNotValid
	}

	return id, nil
}

// SetState keeps the state parameter of an OAuth2 authorization request
// until the provider redirects back.
func (s Session) SetState(w http.ResponseWriter, r *http.Request, state string) error {
	return s.Set(w, r, stateKey, state)
}

// PopState returns and forgets what SetState kept,
// so a state is only ever accepted once.
// Without one, ErrNoState returns.
func (s Session) PopState(w http.ResponseWriter, r *http.Request) (string, error) {
	val, ok := s.s.Values[stateKey]
	if !ok {
		return "", ErrNoState
	}

	delete(s.s.Values, stateKey)
	if state, _ := val.(string); state != "" {
		return state, s.save(w, r)
	}

	return "", ErrNoState
}

// SetFlash queues flash for the next page the session sees.
func (s Session) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	s.s.AddFlash(flash)
	return s.save(w, r)
}

// Flashes returns and forgets every queued Flash.
// Failing to save the session means returning none.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	if len(raw) == 0 {
		return []Flash{}
	}

	if err := s.save(w, r); err != nil {
		return nil
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}

	return flashes
}

// ClearFlashes forgets every queued Flash unseen.
func (s Session) ClearFlashes(w http.ResponseWriter, r *http.Request) { _ = s.Flashes(w, r) }

func (s Session) save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }
