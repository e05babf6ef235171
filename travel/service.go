package travel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/auth"
	"github.com/xy-planning-network/wayfarer/postgres"
)

var _ Store = Service{}

// A Service implements Store over PostgreSQL.
type Service struct {
	db *postgres.DB
}

// NewService constructs a Service querying db.
func NewService(db *postgres.DB) Service { return Service{db: db} }

// AddTrip saves trip.
// If trip names no User, wayfarer.ErrMissingData returns.
func (s Service) AddTrip(ctx context.Context, trip *wayfarer.Trip) error {
	if trip == nil || trip.UserID == 0 {
		return fmt.Errorf("%w: trip needs a user", wayfarer.ErrMissingData)
	}

	return s.db.WithContext(ctx).Create(trip)
}

// Authenticate finds the User matching email and password.
//
// Unknown emails and wrong passwords both return ErrBadCreds.
// Users without a password, like those signing in with Google, cannot authenticate this way.
func (s Service) Authenticate(ctx context.Context, email, password string) (wayfarer.User, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if errors.Is(err, wayfarer.ErrNotFound) {
		return wayfarer.User{}, ErrBadCreds
	}

	if err != nil {
		return wayfarer.User{}, err
	}

	if len(user.Password) == 0 {
		return wayfarer.User{}, ErrBadCreds
	}

	if err := auth.CheckPassword(user.Password, password); err != nil {
		if errors.Is(err, wayfarer.ErrNotValid) {
			return wayfarer.User{}, ErrBadCreds
		}

		return wayfarer.User{}, err
	}

	return user, nil
}

// CreateUser saves a new User with access granted.
func (s Service) CreateUser(ctx context.Context, email, name, password string) (wayfarer.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return wayfarer.User{}, err
	}

	user := wayfarer.User{
		AccessState: wayfarer.AccessGranted,
		Email:       wayfarer.NormalizeEmail(email),
		ExternalID:  uuid.New(),
		Name:        name,
		Password:    hash,
	}

	if err := s.db.WithContext(ctx).Create(&user); err != nil {
		return wayfarer.User{}, err
	}

	return user, nil
}

// DeleteTrip soft deletes the Trip when it belongs to userID.
func (s Service) DeleteTrip(ctx context.Context, userID, tripID uint) error {
	if userID == 0 || tripID == 0 {
		return fmt.Errorf("%w: trip %d for user %d", wayfarer.ErrNotFound, tripID, userID)
	}

	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("id = ?", tripID).
		Delete(new(wayfarer.Trip))
}

// FindOrCreateUser finds the User with email, creating one without a password if none exists.
func (s Service) FindOrCreateUser(ctx context.Context, email, name string) (wayfarer.User, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if !errors.Is(err, wayfarer.ErrNotFound) {
		return user, err
	}

	user = wayfarer.User{
		AccessState: wayfarer.AccessGranted,
		Email:       wayfarer.NormalizeEmail(email),
		ExternalID:  uuid.New(),
		Name:        name,
	}

	err = s.db.WithContext(ctx).Create(&user)
	if errors.Is(err, wayfarer.ErrExists) {
		// NOTE: a concurrent request created the User first.
		return s.FindUserByEmail(ctx, email)
	}

	if err != nil {
		return wayfarer.User{}, err
	}

	return user, nil
}

// FindUser finds the User with id.
func (s Service) FindUser(ctx context.Context, id uint) (wayfarer.User, error) {
	var user wayfarer.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user); err != nil {
		return wayfarer.User{}, err
	}

	return user, nil
}

// FindUserByEmail finds the User with email, ignoring case.
func (s Service) FindUserByEmail(ctx context.Context, email string) (wayfarer.User, error) {
	var user wayfarer.User
	err := s.db.WithContext(ctx).Where("email = ?", wayfarer.NormalizeEmail(email)).First(&user)
	if err != nil {
		return wayfarer.User{}, err
	}

	return user, nil
}

// ListTrips returns the User's trips, the latest first.
// A User without trips gets an empty slice.
func (s Service) ListTrips(ctx context.Context, userID uint) ([]wayfarer.Trip, error) {
	trips := make([]wayfarer.Trip, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC").
		Find(&trips)
	if err != nil && !errors.Is(err, wayfarer.ErrNotFound) {
		return nil, err
	}

	return trips, nil
}

// Stats counts the User's trips, the days they spent on them and the distinct countries they visited.
func (s Service) Stats(ctx context.Context, userID uint) (Stats, error) {
	var stats Stats
	err := s.db.WithContext(ctx).Raw(&stats, statsQuery, userID)
	if err != nil {
		return Stats{}, err
	}

	return stats, nil
}

const statsQuery = `
SELECT
	COUNT(*) AS trips,
	COALESCE(SUM(GREATEST(COALESCE(end_date, start_date) - start_date, 0) + 1), 0) AS days,
	COUNT(DISTINCT NULLIF(LOWER(country), '')) AS countries
FROM trips
WHERE user_id = ? AND deleted_at IS NULL`

// UpdateUser saves the changes to the User with id.
// The password is kept unless changes carries a new one.
func (s Service) UpdateUser(ctx context.Context, id uint, changes UserChanges) (wayfarer.User, error) {
	var password sql.NullString
	if changes.Password != "" {
		hash, err := auth.HashPassword(changes.Password)
		if err != nil {
			return wayfarer.User{}, err
		}

		password = sql.NullString{String: string(hash), Valid: true}
	}

	updates := postgres.Updates{
		"email":    wayfarer.NormalizeEmail(changes.Email),
		"name":     changes.Name,
		"password": password,
	}
	updates.StripNils()

	if err := s.db.WithContext(ctx).Model(new(wayfarer.User)).Where("id = ?", id).Update(updates); err != nil {
		return wayfarer.User{}, err
	}

	return s.FindUser(ctx, id)
}
