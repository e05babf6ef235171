package resp

import (
	"errors"

	"github.com/xy-planning-network/wayfarer"
)

var (
	ErrBadConfig   = wayfarer.ErrBadConfig
	ErrDone        = errors.New("request ctx done")
	ErrInvalid     = wayfarer.ErrNotValid
	ErrMissingData = wayfarer.ErrMissingData
	ErrNotFound    = wayfarer.ErrNotFound
	ErrNoUser      = errors.New("no user")
)
