package testament

import (
	"github.com/UZHBCON/deathnote/errors"
)

var (
	// ErrTooEarly is returned when a beneficiary claims before the
	// waiting period ended.
	ErrTooEarly = errors.Register(1500, "too early")

	// ErrAlreadyClaimed is returned when a beneficiary claims a second
	// time.
	ErrAlreadyClaimed = errors.Register(1501, "already claimed")
)
