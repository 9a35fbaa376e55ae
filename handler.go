package deathnote

import (
	"encoding/json"

	"github.com/tendermint/tendermint/libs/common"
)

// Handler processes the messages of one route, e.g. testament/confirm.
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction in CheckTx. It must not rely on any
// write surviving.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction in DeliverTx.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around a handler, typically for authentication, logging
// or metrics. Calling next continues down the stack.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the app_state of the genesis file, one JSON value per
// extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the value stored under key into obj. A missing key
// leaves obj untouched and is not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers returns an initializer calling all of inits in order.
// The first error stops the chain.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (list initializers) FromGenesis(opts Options, db KVStore) error {
	for _, init := range list {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}

// CheckResult is the outcome of a successful Check. Failures are reported
// with an error only.
type CheckResult struct {
	// Data is returned to the client as is, e.g. the id of a new testament.
	Data []byte
	Log  string
	// GasAllocated limits the work the transaction may do.
	GasAllocated int64
	// GasPayment is what the transaction pays for, e.g. signature checks.
	GasPayment int64
}

// DeliverResult is the outcome of a successful Deliver.
type DeliverResult struct {
	Data []byte
	Log  string
	// Tags are indexed by tendermint for transaction search.
	Tags []common.KVPair
	// Events are published to the registered sinks after the block is
	// committed.
	Events  []Event
	GasUsed int64
}
