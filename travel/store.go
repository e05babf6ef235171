package travel

import (
	"context"

	"github.com/xy-planning-network/wayfarer"
)

//go:generate mockgen -destination=mock/mock_store.go -package=mock github.com/xy-planning-network/wayfarer/travel Store

// A Store persists Users and their Trips.
type Store interface {
	// AddTrip saves trip for trip.UserID.
	AddTrip(ctx context.Context, trip *wayfarer.Trip) error

	// Authenticate finds the User matching email and password.
	// If none does, ErrBadCreds returns.
	Authenticate(ctx context.Context, email, password string) (wayfarer.User, error)

	// CreateUser saves a new User with the password hashed.
	// If a User already has email, wayfarer.ErrExists returns.
	CreateUser(ctx context.Context, email, name, password string) (wayfarer.User, error)

	// DeleteTrip soft deletes the Trip only when it belongs to userID.
	// Otherwise, wayfarer.ErrNotFound returns.
	DeleteTrip(ctx context.Context, userID, tripID uint) error

	FindOrCreateUser(ctx context.Context, email, name string) (wayfarer.User, error)
	FindUser(ctx context.Context, id uint) (wayfarer.User, error)
	FindUserByEmail(ctx context.Context, email string) (wayfarer.User, error)

	// ListTrips returns the User's trips, the latest first.
	ListTrips(ctx context.Context, userID uint) ([]wayfarer.Trip, error)

	Stats(ctx context.Context, userID uint) (Stats, error)

	// UpdateUser saves the changes, leaving the password alone when it is empty.
	UpdateUser(ctx context.Context, id uint, changes UserChanges) (wayfarer.User, error)
}

// Stats summarizes a User's trips.
type Stats struct {
	Countries int `json:"countries"`
	Days      int `json:"days"`
	Trips     int `json:"trips"`
}

// UserChanges are the profile fields a User can edit.
type UserChanges struct {
	Email    string
	Name     string
	Password string
}
