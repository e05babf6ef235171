package wayfarer

import (
	"time"

	"gorm.io/gorm"
)

// A Model is the essential data points for primary ID-based models,
// indicating when a record was created, last updated and soft deleted.
type Model struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Exists asserts whether the Model was read from or written to the database.
func (m Model) Exists() bool { return m.ID != 0 && !m.CreatedAt.IsZero() }

// IsDeleted asserts whether the record is soft deleted.
func (m Model) IsDeleted() bool { return m.DeletedAt.Valid }

// AccessState is a string representation of the broadest, general access
// a User has to wayfarer.
type AccessState string

var _ Enumerable = AccessState("")

const (
	AccessGranted AccessState = "granted"
	AccessRevoked AccessState = "revoked"
)

// String stringifies the AccessState.
//
// String implements fmt.Stringer.
func (as AccessState) String() string { return string(as) }

// Valid asserts whether the AccessState is a known value.
func (as AccessState) Valid() error {
	switch as {
	case AccessGranted, AccessRevoked:
		return nil
	default:
		return ErrNotValid
	}
}
