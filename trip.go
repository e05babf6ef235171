package wayfarer

import "time"

// DateLayout is how dates are written in forms and JSON for a Trip.
const DateLayout = "2006-01-02"

// A Trip is a single journey a User has taken to a Destination.
//
// Latitude and Longitude place the Trip on the globe.
type Trip struct {
	Model
	UserID      uint       `json:"userId" gorm:"index;not null"`
	Destination string     `json:"destination" gorm:"not null"`
	Country     string     `json:"country"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	StartDate   time.Time  `json:"startDate" gorm:"type:date;not null"`
	EndDate     *time.Time `json:"endDate,omitempty" gorm:"type:date"`
	Notes       string     `json:"notes"`
}

// Days returns the number of calendar days the Trip spans, counting both ends.
// A Trip without an EndDate, or one ending before it starts, lasts one day.
func (t Trip) Days() int {
	if t.EndDate == nil {
		return 1
	}

	start := t.StartDate.Truncate(24 * time.Hour)
	end := t.EndDate.Truncate(24 * time.Hour)
	if end.Before(start) {
		return 1
	}

	return int(end.Sub(start).Hours()/24) + 1
}
