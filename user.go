package wayfarer

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// A User is a traveller keeping a log of their trips.
//
// An agent's HTTP requests are authenticated first by a specific request
// with email & password data matching credentials stored on a DB record for a User.
// Upon a match, a session is created and stored.
// Further requests are authenticated by referencing that session.
//
// A User has many Trips.
type User struct {
	Model
	AccessState AccessState `json:"accessState" gorm:"type:text;not null;default:granted"`
	Email       string      `json:"email" gorm:"uniqueIndex;not null"`
	ExternalID  uuid.UUID   `json:"externalId" gorm:"type:uuid;uniqueIndex"`
	Name        string      `json:"name"`
	Password    []byte      `json:"-"`

	// Associations
	Trips []Trip `json:"trips,omitempty"`
}

// NormalizeEmail lower cases and trims whitespace from email
// so lookups are case-insensitive.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// HasAccess asserts whether the User's properties give it general
// access to wayfarer.
func (u User) HasAccess() bool { return u.AccessState == AccessGranted }

// HomePath returns the relative URL path designated
// as the default resource the User can access.
func (u User) HomePath() string {
	if !u.HasAccess() {
		return "/login/"
	}

	return "/"
}

// GetID implements logger.LogUser.
func (u User) GetID() uint { return u.ID }

// GetEmail implements logger.LogUser.
func (u User) GetEmail() string { return u.Email }

// LogValue hides the password hash when a User is logged.
//
// LogValue implements [log/slog.LogValuer].
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("id", uint64(u.ID)),
		slog.String("email", u.Email),
		slog.Any("password", MaskedLogValue),
	)
}
