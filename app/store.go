package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the ABCI methods that do not run transactions:
// the handshake, genesis, block boundaries, commits and queries. BaseApp
// embeds it and adds CheckTx and DeliverTx.
//
// Info, InitChain, BeginBlock, EndBlock and Commit panic on failure.
// Tendermint retries nothing there and the node must stop.
type StoreApp struct {
	logger log.Logger
	name   string
	store  *CommitStore

	initializer deathnote.Initializer
	queryRouter deathnote.QueryRouter

	// chainID is empty until InitChain, or loaded from the store on
	// restart.
	chainID string

	// baseContext lives as long as the app, blockContext is rebuilt by
	// every BeginBlock.
	baseContext  deathnote.Context
	blockContext deathnote.Context
}

// NewStoreApp loads the latest version of store. It panics if the store
// cannot be read.
func NewStoreApp(name string, store deathnote.CommitKVStore, queryRouter deathnote.QueryRouter, baseContext deathnote.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.baseContext = deathnote.WithChainID(s.baseContext, s.chainID)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = deathnote.WithHeight(s.baseContext, info.Version)
	return s
}

// WithInit sets the extensions to load the genesis state with.
func (s *StoreApp) WithInit(init deathnote.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the app and of every handler context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = deathnote.WithLogger(s.baseContext, logger)
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// BlockContext returns the context of the block being processed.
func (s *StoreApp) BlockContext() deathnote.Context {
	return s.blockContext
}

// DeliverStore returns the cache DeliverTx writes to until Commit.
func (s *StoreApp) DeliverStore() deathnote.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the cache CheckTx writes to. It is dropped on Commit.
func (s *StoreApp) CheckStore() deathnote.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis runs once, on the InitChain of a fresh chain.
func (s *StoreApp) loadGenesis(appState []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain: %s", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrState, "app_state not set in genesis.json, run init before starting the node")
	}
	var opts deathnote.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = deathnote.WithChainID(s.baseContext, chainID)

	if s.initializer == nil {
		return nil
	}
	return errors.Wrap(s.initializer.FromGenesis(opts, s.DeliverStore()), "initialize from genesis")
}

// Info returns the last committed height and app hash, so tendermint
// knows which blocks to replay.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock resets the block context to the height and time of the
// header. Handlers read the block time as "now".
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := deathnote.WithHeight(s.baseContext, req.Header.GetHeight())
	s.blockContext = deathnote.WithBlockTime(ctx, req.Header.GetTime().UTC())
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query answers from the last committed state. The path selects the
// handler and may carry a modifier after "?". Height and Prove are
// ignored.
//
// Key and Value of the response are each a marshalled ResultSet of the
// same length, so a response holds any number of models.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	h := s.queryRouter.Handler(path)
	if h == nil {
		code, _ := errors.ABCIInfo(errors.ErrNotFound, false)
		return abci.ResponseQuery{
			Code: code,
			Log: fmt.Sprintf("unknown query path %q, known paths: %s",
				req.Path, strings.Join(s.queryRouter.Paths(), ", ")),
		}
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	models, err := h.Query(s.store.Committed(), mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: info.Version, Key: keys, Value: values}
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

// RegisterQuery binds "/" to a plain key lookup in the committed state.
// ABCIStore reads through it, so clients can use the buckets remotely.
func RegisterQuery(qr deathnote.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db deathnote.ReadOnlyKVStore, mod string, key []byte) ([]deathnote.Model, error) {
	if mod != deathnote.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	if len(key) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "key")
	}
	value, err := db.Get(key)
	if err != nil || value == nil {
		return nil, err
	}
	return []deathnote.Model{deathnote.Pair(key, value)}, nil
}
