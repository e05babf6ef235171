package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/travel"
)

func TestIndex(t *testing.T) {
	end := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	trips := []wayfarer.Trip{
		{
			Model:       wayfarer.Model{ID: 2},
			UserID:      traveller.ID,
			Destination: "Kyoto",
			Country:     "Japan",
			Latitude:    35.01,
			Longitude:   135.77,
			StartDate:   time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     &end,
		},
		{
			Model:       wayfarer.Model{ID: 1},
			UserID:      traveller.ID,
			Destination: "Calicut",
			Country:     "India",
			Latitude:    11.25,
			Longitude:   75.78,
			StartDate:   time.Date(2022, time.May, 20, 0, 0, 0, 0, time.UTC),
		},
	}
	stats := travel.Stats{Countries: 2, Days: 6, Trips: 2}

	t.Run("Landing", func(t *testing.T) {
		// Arrange
		rt, _ := newTestRouter(t)
		w := httptest.NewRecorder()
		r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/", nil))

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Every trip, on one globe.")
		require.Contains(t, w.Body.String(), `href="http://example.com/create/"`)
		require.Contains(t, w.Body.String(), `id="globe"`)
	})

	t.Run("Globe", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t)
		store.EXPECT().ListTrips(gomock.Any(), traveller.ID).Return(trips, nil)
		store.EXPECT().Stats(gomock.Any(), traveller.ID).Return(stats, nil)

		w := httptest.NewRecorder()
		r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/", nil))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		body := w.Body.String()
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, body, "Zheng He")
		require.Contains(t, body, "<strong>Kyoto</strong>, Japan")
		require.Contains(t, body, "2023-04-01 to 2023-04-05")
		require.Contains(t, body, "<strong>6</strong> days travelled")
		require.Contains(t, body, `"label":"Calicut"`)
		require.Contains(t, body, `name="id" value="2"`)
	})

	t.Run("JSON", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t)
		store.EXPECT().ListTrips(gomock.Any(), traveller.ID).Return(trips, nil)
		store.EXPECT().Stats(gomock.Any(), traveller.ID).Return(stats, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept", "application/json")
		r, _ = withSession(t, r)
		r = withUser(r, traveller)

		var actual struct {
			Data struct {
				Stats travel.Stats    `json:"stats"`
				Trips []wayfarer.Trip `json:"trips"`
			} `json:"data"`
			User wayfarer.User `json:"currentUser"`
		}

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Nil(t, json.NewDecoder(w.Body).Decode(&actual))
		require.Equal(t, stats, actual.Data.Stats)
		require.Len(t, actual.Data.Trips, 2)
		require.Equal(t, "Kyoto", actual.Data.Trips[0].Destination)
		require.Equal(t, traveller.Email, actual.User.Email)
	})

	t.Run("Store-Err", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t)
		store.EXPECT().ListTrips(gomock.Any(), traveller.ID).Return(nil, errors.New("connection refused"))

		w := httptest.NewRecorder()
		r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/", nil))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
