package act

import (
	"errors"
)

var (
	ErrSupervisorStrategyUnknown = errors.New("unknown supervisor strategy")
	ErrSupervisorNotifyRequired  = errors.New("strategy requires the Notify callback")
)
