package sigs

import (
	"github.com/UZHBCON/deathnote/errors"
)

// ErrInvalidSequence is returned when the nonce of a signature does not
// match the stored value of the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
