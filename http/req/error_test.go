package req_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/req"
)

func TestValidationErrorsError(t *testing.T) {
	// Arrange
	var v req.ValidationErrors

	// Act
	actual := v.Error()

	// Assert
	require.Zero(t, actual)

	// Arrange
	v = append(
		v,
		req.ValidationError{Field: "destination", Rule: "required; string"},
		req.ValidationError{Field: "latitude", Got: 91.5, Rule: "lte=90; float64"},
	)

	expected := strings.Join([]string{
		`field="destination" rule="required; string" got="<nil>"`,
		`field="latitude" rule="lte=90; float64" got="91.5"`,
	}, "\n")

	// Act
	actual = v.Error()

	// Assert
	require.Equal(t, expected, actual)
}

func TestValidationErrorsMarshalJSON(t *testing.T) {
	// Arrange
	var v req.ValidationErrors

	// Act
	actual, err := json.Marshal(v)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "{}", string(actual))

	// Arrange
	v = append(v, req.ValidationError{Field: "email", Rule: "email; string", Got: "nope"})
	expected := `{"validationErrors":[{"field":"email","got":"nope","rule":"email; string"}]}`

	// Act
	actual, err = json.Marshal(v)

	// Assert
	require.Nil(t, err)
	require.Equal(t, expected, string(actual))
}

func TestValidationErrorsUnwrap(t *testing.T) {
	require.ErrorIs(t, req.ValidationErrors{}, wayfarer.ErrNotValid)
}

func TestValidationErrorMessage(t *testing.T) {
	for rule, expected := range map[string]string{
		"required; string":            "is required",
		"email; string":               "must be a valid email address",
		"min=8; string":               "must be at least 8 characters",
		"max=255; string":             "must be at most 255 characters",
		"gte=-90; float64":            "must be at least -90",
		"lte=180; float64":            "must be at most 180",
		"eqfield=Password; string":    "must match",
		"datetime=2006-01-02; string": "must be a date like 2006-01-02",
		"must be float64":             "must be float64",
		"oneof=a b; string":           "is not valid",
		"after=2023-01-01; string":    "must not be before 2023-01-01",
	} {
		t.Run(rule, func(t *testing.T) {
			require.Equal(t, expected, req.ValidationError{Rule: rule}.Message())
		})
	}
}

func TestValidationErrorsFields(t *testing.T) {
	// Arrange
	v := req.ValidationErrors{
		{Field: "email", Rule: "required; string"},
		{Field: "email", Rule: "email; string"},
		{Field: "password", Rule: "min=8; string"},
	}

	// Act
	actual := v.Fields()

	// Assert
	require.Equal(t, map[string]string{
		"email":    "is required",
		"password": "must be at least 8 characters",
	}, actual)
}
