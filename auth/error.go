package auth

import "github.com/xy-planning-network/wayfarer"

var (
	ErrNotImplemented = wayfarer.ErrNotImplemented
	ErrNotValid       = wayfarer.ErrNotValid
	ErrUnexpected     = wayfarer.ErrUnexpected
)
