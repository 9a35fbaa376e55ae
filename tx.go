package deathnote

import (
	"reflect"

	"github.com/UZHBCON/deathnote/errors"
)

// Marshaller encodes a value into bytes. Marshal may validate first.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be stored and loaded. Unmarshal needs a pointer
// receiver, which is why it is split from Marshaller.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is the operation a transaction requests, e.g. confirming a death.
// Authentication data lives in the Tx around it.
type Msg interface {
	// Path routes the message to its handler. It matches
	// [0-9A-Za-z_\-/]+, e.g. testament/claim.
	Path() string

	// Validate runs the checks that need no state.
	Validate() error
}

// Tx is what a client submits: one message along with the data needed to
// authenticate it, such as signatures.
type Tx interface {
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message of tx, or (missing).
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses the raw bytes of a transaction.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg copies the message of tx into destination, which must be a
// pointer to the concrete message type. The message is validated after
// the copy.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	src := reflect.Indirect(reflect.ValueOf(msg))
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dst.Elem().Set(src)

	return errors.Wrap(msg.Validate(), "invalid message")
}
