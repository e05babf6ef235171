package handler

import (
	"time"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/req"
)

type createForm struct {
	Name     string `json:"name" schema:"name" validate:"required,max=255"`
	Email    string `json:"email" schema:"email" validate:"required,email,max=255"`
	Password string `json:"password" schema:"password" validate:"required,min=8,max=72"`
	Confirm  string `json:"confirm" schema:"confirm" validate:"eqfield=Password"`
}

type deleteTripForm struct {
	ID uint `json:"id" schema:"id" validate:"required"`
}

type loginForm struct {
	Email    string `json:"email" schema:"email" validate:"required,email"`
	Password string `json:"password" schema:"password" validate:"required"`
	Next     string `json:"next" schema:"next"`
}

type tripForm struct {
	Destination string  `json:"destination" schema:"destination" validate:"required,max=255"`
	Country     string  `json:"country" schema:"country" validate:"max=255"`
	Latitude    float64 `json:"latitude" schema:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" schema:"longitude" validate:"gte=-180,lte=180"`
	StartDate   string  `json:"startDate" schema:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"endDate" schema:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Notes       string  `json:"notes" schema:"notes" validate:"max=2000"`
}

// trip builds a wayfarer.Trip for userID out of the validated form.
//
// A form ending before it starts returns req.ValidationErrors.
func (f tripForm) trip(userID uint) (wayfarer.Trip, error) {
	start, err := time.Parse(wayfarer.DateLayout, f.StartDate)
	if err != nil {
		return wayfarer.Trip{}, req.ValidationErrors{{Field: "startDate", Got: f.StartDate, Rule: "datetime=2006-01-02; string"}}
	}

	t := wayfarer.Trip{
		UserID:      userID,
		Destination: f.Destination,
		Country:     f.Country,
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
		StartDate:   start,
		Notes:       f.Notes,
	}

	if f.EndDate == "" {
		return t, nil
	}

	end, err := time.Parse(wayfarer.DateLayout, f.EndDate)
	if err != nil {
		return wayfarer.Trip{}, req.ValidationErrors{{Field: "endDate", Got: f.EndDate, Rule: "datetime=2006-01-02; string"}}
	}

	if end.Before(start) {
		return wayfarer.Trip{}, req.ValidationErrors{{Field: "endDate", Got: f.EndDate, Rule: "after=" + f.StartDate + "; string"}}
	}

	t.EndDate = &end
	return t, nil
}

type updateForm struct {
	Name     string `json:"name" schema:"name" validate:"required,max=255"`
	Email    string `json:"email" schema:"email" validate:"required,email,max=255"`
	Password string `json:"password" schema:"password" validate:"omitempty,min=8,max=72"`
	Confirm  string `json:"confirm" schema:"confirm" validate:"eqfield=Password"`
}
