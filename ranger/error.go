package ranger

import (
	"fmt"

	"github.com/xy-planning-network/wayfarer"
)

var ErrBadConfig = fmt.Errorf("%w: ranger", wayfarer.ErrBadConfig)
