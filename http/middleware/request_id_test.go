package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/middleware"
)

func TestRequestID(t *testing.T) {
	// Arrange
	var actual string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actual, _ = r.Context().Value(wayfarer.RequestIDKey).(string)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(middleware.RequestIDHeader, "not-a-uuid")

	// Act
	middleware.RequestID()(h).ServeHTTP(w, r)

	// Assert
	_, err := uuid.Parse(actual)
	require.Nil(t, err)
	require.NotEqual(t, "not-a-uuid", actual)
	require.Equal(t, actual, w.Header().Get(middleware.RequestIDHeader))

	// Arrange
	id := uuid.NewString()
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(middleware.RequestIDHeader, id)

	// Act
	middleware.RequestID()(h).ServeHTTP(w, r)

	// Assert
	require.Equal(t, id, actual)
	require.Equal(t, id, w.Header().Get(middleware.RequestIDHeader))
}
