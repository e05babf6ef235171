package session

import (
	"fmt"

	"github.com/xy-planning-network/wayfarer"
)

var (
	ErrNoState  = fmt.Errorf("%w: no oauth state in session", wayfarer.ErrNotFound)
	ErrNoUser   = fmt.Errorf("%w: no user in session", wayfarer.ErrNotFound)
	ErrNotValid = fmt.Errorf("%w: session value", wayfarer.ErrNotValid)
)
