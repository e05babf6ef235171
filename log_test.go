package wayfarer_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
)

func TestMask(t *testing.T) {
	// Arrange
	vals := url.Values{
		"email":    {"ibn@example.com"},
		"password": {"hunter2", "hunter3"},
		"token":    {"eyJhbGciOi"},
	}

	// Act
	wayfarer.Mask(vals, wayfarer.SecretParams...)

	// Assert
	require.Equal(t, url.Values{
		"email":    {"ibn@example.com"},
		"password": {wayfarer.LogMaskVal},
		"token":    {wayfarer.LogMaskVal},
	}, vals)

	// Arrange
	empty := url.Values{}

	// Act
	wayfarer.Mask(empty, "password")
	wayfarer.Mask(vals)

	// Assert
	require.Empty(t, empty)
	require.Len(t, vals, 3)
}
