package deathnotetest

import "github.com/UZHBCON/deathnote"

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg deathnote.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ deathnote.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (deathnote.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message with a configurable path.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ deathnote.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
