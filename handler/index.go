package handler

import (
	"net/http"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/travel"
)

// An indexPage is everything a signed in User sees first.
type indexPage struct {
	Pins  []pin           `json:"-"`
	Stats travel.Stats    `json:"stats"`
	Trips []wayfarer.Trip `json:"trips"`
}

// A pin marks a Trip on the globe.
type pin struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

func pins(trips []wayfarer.Trip) []pin {
	out := make([]pin, 0, len(trips))
	for _, t := range trips {
		out = append(out, pin{Label: t.Destination, Lat: t.Latitude, Lng: t.Longitude})
	}

	return out
}

// index shows visitors the landing page
// and signed in users the globe of their trips.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	user, err := h.CurrentUser(r.Context())
	if err != nil {
		if resp.WantsJSON(r) {
			h.json(w, r)
			return
		}

		h.html(w, r, landingTmpl, nil)
		return
	}

	trips, err := h.store.ListTrips(r.Context(), user.ID)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	stats, err := h.store.Stats(r.Context(), user.ID)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	page := indexPage{Pins: pins(trips), Stats: stats, Trips: trips}
	if resp.WantsJSON(r) {
		h.json(w, r, resp.Data(page))
		return
	}

	h.html(w, r, indexTmpl, page)
}
