package handler

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/session"
)

// addTrip logs a Trip for the signed in User.
func (h *Handler) addTrip(w http.ResponseWriter, r *http.Request) {
	user, err := h.CurrentUser(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		h.html(w, r, addTripTmpl, formPage{Form: tripForm{}})
		return
	}

	form := new(tripForm)
	if err := h.parser.Parse(r, form); err != nil {
		h.invalid(w, r, addTripTmpl, formPage{Form: form}, err)
		return
	}

	trip, err := form.trip(user.ID)
	if err != nil {
		h.invalid(w, r, addTripTmpl, formPage{Form: form}, err)
		return
	}

	if err := h.store.AddTrip(r.Context(), &trip); err != nil {
		h.fail(w, r, err, AddTripPath)
		return
	}

	if resp.WantsJSON(r) {
		h.json(w, r, resp.Code(http.StatusCreated), resp.Data(trip))
		return
	}

	h.redirect(w, r, resp.Success(session.TripAddedMsg), resp.Code(http.StatusSeeOther))
}

// deleteTrip removes one of the signed in User's Trips.
// Trips belonging to someone else are treated as not existing.
func (h *Handler) deleteTrip(w http.ResponseWriter, r *http.Request) {
	user, err := h.CurrentUser(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	form := new(deleteTripForm)
	if err := h.parser.Parse(r, form); err != nil {
		if resp.WantsJSON(r) {
			h.invalid(w, r, "", formPage{}, err)
			return
		}

		h.redirect(w, r, resp.Warn(session.BadInputMsg), resp.Code(http.StatusSeeOther))
		return
	}

	err = h.store.DeleteTrip(r.Context(), user.ID, form.ID)
	switch {
	case errors.Is(err, wayfarer.ErrNotFound):
		if resp.WantsJSON(r) {
			h.json(w, r, resp.Code(http.StatusNotFound), message(session.NoTripMsg))
			return
		}

		h.redirect(w, r, resp.Warn(session.NoTripMsg), resp.Code(http.StatusSeeOther))
		return
	case err != nil:
		h.fail(w, r, err, IndexPath)
		return
	}

	if resp.WantsJSON(r) {
		h.json(w, r, resp.Code(http.StatusNoContent))
		return
	}

	h.redirect(w, r, resp.Success(session.TripDeletedMsg), resp.Code(http.StatusSeeOther))
}
