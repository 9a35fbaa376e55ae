package errors

import (
	"fmt"
)

const (
	// SuccessABCICode is the code of a successful response.
	SuccessABCICode = 0

	// internalABCICode is returned for every error without a registered
	// code. Their message is replaced by internalABCILog.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of the ABCI response for err. A nil
// error is a success.
//
// Errors without a registered code get code 1. Their message is hidden
// unless debug is set. In debug mode all messages are printed with %+v, so
// the stack trace is included.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from the code and log of a response. Known
// codes give an error of the registered kind.
func ABCIError(code uint32, log string) error {
	if e, ok := registry[code]; ok {
		return Wrap(e, log)
	}
	return fmt.Errorf("unknown code %d: %s", code, log)
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the first code found while unwrapping err.
func abciCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
	return SuccessABCICode
}
