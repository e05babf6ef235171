package travel

import (
	"fmt"

	"github.com/xy-planning-network/wayfarer"
)

// ErrBadCreds signals an email and password matching no User.
var ErrBadCreds = fmt.Errorf("%w: bad credentials", wayfarer.ErrNotValid)
