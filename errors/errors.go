package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all extensions. Codes below 1000 are reserved for
// this package.
var (
	// ErrUnauthorized means the signers of a transaction may not perform
	// the requested operation.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound means the entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg means the message cannot be decoded or routed.
	ErrMsg = Register(4, "invalid message")

	// ErrModel means a model failed validation and was not stored.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate means a unique key or index value is already taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that a correct program never reaches.
	ErrHuman = Register(7, "coding error")

	ErrEmpty = Register(9, "value is empty")

	// ErrState means the operation is not allowed in the current state of
	// the entity, e.g. a revoked testament.
	ErrState = Register(10, "invalid state")

	ErrType = Register(11, "invalid type")

	// ErrAmount means a wallet or a testament holds less than required.
	ErrAmount = Register(12, "insufficient funds")

	// ErrInput covers malformed arguments, mismatched lists and non
	// positive amounts.
	ErrInput = Register(14, "invalid input")

	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	ErrDatabase = Register(17, "database error")

	// ErrPanic wraps a recovered panic. Its message is never exposed
	// outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry maps every code to its root error. Code 1 stands for all
// errors without a code.
var registry = map[uint32]*Error{
	internalABCICode: {code: internalABCICode, desc: internalABCILog},
}

// Register declares a root error. Extensions call it from package level
// variables with codes of their own range. A code can be registered only
// once, a second attempt panics.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already taken by %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Lookup returns the root error registered under code.
func Lookup(code uint32) (*Error, bool) {
	e, ok := registry[code]
	return e, ok
}

// Error is a root error. Errors returned at runtime wrap one of them, so
// that the kind and the ABCI code survive any number of wraps.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the code the error is registered with.
func (e Error) ABCICode() uint32 {
	return e.code
}

// Is reports whether err is this root error or wraps it. A multi error
// matches when any of its errors does. A nil kind matches only nil.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == kind {
			return true
		}
		if m, ok := err.(*multiErr); ok {
			for _, e := range m.errs {
				if kind.Is(e) {
					return true
				}
			}
			return false
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds description in front of the message of err. The innermost
// wrap records the stack trace. Wrapping nil returns nil, so the result
// of a call can be wrapped without checking it first.
//
// Errors without an ABCI code are reported as internal errors.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace before the message for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		if st := stackTrace(e); st != nil {
			fmt.Fprintf(s, "%+v\n", st)
		}
	}
	fmt.Fprint(s, e.Error())
}

// Recover turns a panic into an ErrPanic stored in err. It must be called
// with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the outermost stack trace found in the chain of err.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// errIsNil also treats a typed nil pointer as nil.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
