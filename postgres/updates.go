package postgres

import (
	"database/sql/driver"
	"fmt"

	"github.com/xy-planning-network/wayfarer"
)

// Updates maps column names to the values a query writes to them.
type Updates map[string]any

func (u Updates) valid() error {
	if len(u) == 0 {
		return fmt.Errorf("%w: no columns set", wayfarer.ErrMissingData)
	}

	return nil
}

// StripNils drops every column whose value would be written as NULL,
// along with any wayfarer.Enumerable that is not one of its constants.
// What remains leaves the existing data in those columns alone.
func (u Updates) StripNils() {
	for col, v := range u {
		if isNil(v) {
			delete(u, col)
		}
	}
}

func isNil(v any) bool {
	switch t := v.(type) {
	case nil:
		return true

	case driver.Valuer:
		val, err := t.Value()
		return err != nil || val == nil

	case wayfarer.Enumerable:
		return t.Valid() != nil

	default:
		return false
	}
}
