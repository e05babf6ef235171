package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/handler"
	"github.com/xy-planning-network/wayfarer/http/middleware"
	"github.com/xy-planning-network/wayfarer/http/session"
)

func TestAddTrip(t *testing.T) {
	kyoto := url.Values{
		"destination": {"Kyoto"},
		"country":     {"Japan"},
		"latitude":    {"35.01"},
		"longitude":   {"135.77"},
		"startDate":   {"2023-04-01"},
		"endDate":     {"2023-04-05"},
	}

	t.Run("Form", func(t *testing.T) {
		// Arrange
		rt, _ := newTestRouter(t)
		w := httptest.NewRecorder()
		r, _ := withSession(t, httptest.NewRequest(http.MethodGet, "/addTrip/", nil))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `name="destination"`)
		require.Contains(t, w.Body.String(), `type="date"`)
	})

	t.Run("Unauthed", func(t *testing.T) {
		// Arrange
		rt, _ := newTestRouter(t)
		w := httptest.NewRecorder()
		r, _ := withSession(t, postForm("/addTrip/", kyoto))

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/login/", w.Header().Get("Location"))
	})

	t.Run("Invalid", func(t *testing.T) {
		// Arrange
		rt, _ := newTestRouter(t)
		w := httptest.NewRecorder()
		r, _ := withSession(t, postForm("/addTrip/", url.Values{
			"destination": {"Kyoto"},
			"latitude":    {"95"},
			"startDate":   {"April 1st"},
		}))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "must be at most 90")
		require.Contains(t, w.Body.String(), "must be a date like 2006-01-02")
		require.Contains(t, w.Body.String(), `value="Kyoto"`)
	})

	t.Run("Ends-Before-Start", func(t *testing.T) {
		// Arrange
		rt, _ := newTestRouter(t)
		vals := url.Values{"destination": {"Kyoto"}, "startDate": {"2023-04-05"}, "endDate": {"2023-04-01"}}
		w := httptest.NewRecorder()
		r, _ := withSession(t, postJSON("/addTrip/", mustJSON(t, map[string]string{
			"destination": vals.Get("destination"),
			"startDate":   vals.Get("startDate"),
			"endDate":     vals.Get("endDate"),
		})))
		r = withUser(r, traveller)

		var actual struct {
			Data struct {
				ValidationErrors []struct {
					Field string `json:"field"`
					Rule  string `json:"rule"`
				} `json:"validationErrors"`
			} `json:"data"`
		}

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Nil(t, json.NewDecoder(w.Body).Decode(&actual))
		require.Len(t, actual.Data.ValidationErrors, 1)
		require.Equal(t, "endDate", actual.Data.ValidationErrors[0].Field)
		require.Equal(t, "after=2023-04-05; string", actual.Data.ValidationErrors[0].Rule)
	})

	t.Run("Success", func(t *testing.T) {
		// Arrange
		end := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
		expected := &wayfarer.Trip{
			UserID:      traveller.ID,
			Destination: "Kyoto",
			Country:     "Japan",
			Latitude:    35.01,
			Longitude:   135.77,
			StartDate:   time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     &end,
		}

		rt, store := newTestRouter(t)
		store.EXPECT().AddTrip(gomock.Any(), expected).Return(nil)

		w := httptest.NewRecorder()
		r, s := withSession(t, postForm("/addTrip/", kyoto))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "http://example.com/", w.Header().Get("Location"))
		require.Equal(t, []session.Flash{{Type: session.FlashSuccess, Msg: session.TripAddedMsg}}, flashes(s, r))
	})

	t.Run("Store-Err", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t)
		store.EXPECT().AddTrip(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		w := httptest.NewRecorder()
		r, _ := withSession(t, postForm("/addTrip/", kyoto))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "http://example.com/addTrip/", w.Header().Get("Location"))
	})

	t.Run("Idempotent-JSON", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t, handler.WithIdempotencyCache(middleware.NewMemoryCache(time.Minute)))
		store.EXPECT().
			AddTrip(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, trip *wayfarer.Trip) error {
				trip.ID = 12
				return nil
			}).
			Times(1)

		body := `{"destination":"Kyoto","latitude":35.01,"longitude":135.77,"startDate":"2023-04-01"}`
		send := func() *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			r, _ := withSession(t, postJSON("/addTrip/", body))
			r.Header.Set(middleware.IdempotencyHeader, "f1c7e2a4")
			rt.ServeHTTP(w, withUser(r, traveller))
			return w
		}

		var actual struct {
			Data wayfarer.Trip `json:"data"`
		}

		// Act
		first := send()
		second := send()

		// Assert
		require.Equal(t, http.StatusCreated, first.Code)
		require.Equal(t, http.StatusCreated, second.Code)
		require.Equal(t, first.Body.String(), second.Body.String())
		require.Nil(t, json.NewDecoder(first.Body).Decode(&actual))
		require.Equal(t, uint(12), actual.Data.ID)
		require.Equal(t, "Kyoto", actual.Data.Destination)
		require.Equal(t, traveller.ID, actual.Data.UserID)
	})
}

func TestDeleteTrip(t *testing.T) {
	t.Run("Not-Found", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t)
		store.EXPECT().DeleteTrip(gomock.Any(), traveller.ID, uint(99)).Return(wayfarer.ErrNotFound)

		w := httptest.NewRecorder()
		r, s := withSession(t, postForm("/deleteTrip/", url.Values{"id": {"99"}}))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "http://example.com/", w.Header().Get("Location"))
		require.Equal(t, []session.Flash{{Type: session.FlashWarning, Msg: session.NoTripMsg}}, flashes(s, r))
	})

	t.Run("Not-Found-JSON", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t)
		store.EXPECT().DeleteTrip(gomock.Any(), traveller.ID, uint(99)).Return(wayfarer.ErrNotFound)

		w := httptest.NewRecorder()
		r, _ := withSession(t, postJSON("/deleteTrip/", `{"id":99}`))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing-ID", func(t *testing.T) {
		// Arrange
		rt, _ := newTestRouter(t)
		w := httptest.NewRecorder()
		r, _ := withSession(t, postJSON("/deleteTrip/", `{}`))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t)
		store.EXPECT().DeleteTrip(gomock.Any(), traveller.ID, uint(2)).Return(nil)

		w := httptest.NewRecorder()
		r, s := withSession(t, postForm("/deleteTrip/", url.Values{"id": {"2"}}))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, []session.Flash{{Type: session.FlashSuccess, Msg: session.TripDeletedMsg}}, flashes(s, r))
	})

	t.Run("Success-JSON", func(t *testing.T) {
		// Arrange
		rt, store := newTestRouter(t)
		store.EXPECT().DeleteTrip(gomock.Any(), traveller.ID, uint(2)).Return(nil)

		w := httptest.NewRecorder()
		r, _ := withSession(t, postJSON("/deleteTrip/", `{"id":2}`))
		r = withUser(r, traveller)

		// Act
		rt.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Zero(t, w.Body.Len())
	})
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	b, err := json.Marshal(v)
	require.Nil(t, err)
	return string(b)
}
