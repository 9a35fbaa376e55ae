package app

import (
	"sync"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx, CheckTx, and BeginBlock
// handlers to the storage and query functionality of StoreApp.
//
// All ABCI methods are serialized by a single mutex, so a BaseApp can be
// shared by the consensus connection and readers such as an HTTP API.
type BaseApp struct {
	mu sync.Mutex
	*StoreApp
	decoder deathnote.TxDecoder
	handler deathnote.Handler
	debug   bool

	sinks deathnote.EventSinks
	// events delivered in the current block, published on Commit
	pending []deathnote.Event
}

var _ abci.Application = (*BaseApp)(nil)

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder deathnote.TxDecoder,
	handler deathnote.Handler,
	debug bool,
) *BaseApp {
	return &BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// Subscribe registers a sink that receives the events of every
// transaction once the block holding it is committed.
func (b *BaseApp) Subscribe(sink deathnote.EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

// Info - ABCI
func (b *BaseApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.Info(req)
}

// SetOption - ABCI
func (b *BaseApp) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.SetOption(req)
}

// Query - ABCI
func (b *BaseApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.Query(req)
}

// InitChain - ABCI
func (b *BaseApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.InitChain(req)
}

// BeginBlock - ABCI
func (b *BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.BeginBlock(req)
}

// EndBlock - ABCI
func (b *BaseApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.EndBlock(req)
}

// Commit - ABCI. Once the state is persisted, all events collected during
// the block are published. Sinks are called without holding the lock so
// they may query the application.
func (b *BaseApp) Commit() abci.ResponseCommit {
	b.mu.Lock()
	res := b.StoreApp.Commit()
	events, sinks := b.pending, b.sinks
	b.pending = nil
	b.mu.Unlock()

	for _, e := range events {
		sinks.Publish(e)
	}
	return res
}

// DeliverTx - ABCI - dispatches to the handler
func (b *BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return deathnote.DeliverTxError(err, b.debug)
	}

	ctx := deathnote.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", deathnote.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	if err == nil {
		b.pending = append(b.pending, res.Events...)
	}
	return deathnote.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b *BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return deathnote.CheckTxError(err, b.debug)
	}

	ctx := deathnote.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", deathnote.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return deathnote.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b *BaseApp) loadTx(txBytes []byte) (tx deathnote.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
