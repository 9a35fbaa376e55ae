package app

import (
	"context"
	"testing"
	"time"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/deathnotetest"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store/iavl"
	"github.com/UZHBCON/deathnote/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func TestBaseApp(t *testing.T) {
	db := dbm.NewMemDB()
	base := newTestApp(t, iavl.NewCommitStoreFromDB(db))

	var sink recordingSink
	base.Subscribe(&sink)

	base.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"greeting": "hello"}`),
	})
	assert.Equal(t, "test-chain-1", base.GetChainID())

	now := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	base.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: now}})

	chres := base.CheckTx([]byte("test/write"))
	require.Equal(t, uint32(0), chres.Code, chres.Log)
	dres := base.DeliverTx([]byte("test/write"))
	require.Equal(t, uint32(0), dres.Code, dres.Log)

	// failed transactions must not publish nor persist anything
	dres = base.DeliverTx([]byte("test/fail"))
	assert.NotEqual(t, uint32(0), dres.Code)
	dres = base.DeliverTx([]byte("test/unknown"))
	assert.NotEqual(t, uint32(0), dres.Code)

	base.EndBlock(abci.RequestEndBlock{})
	assert.Empty(t, sink.events, "events published before commit")
	cres := base.Commit()
	assert.NotEmpty(t, cres.Data)
	if assert.Len(t, sink.events, 1) {
		assert.Equal(t, "test/written", sink.events[0].EventKind())
	}

	// committed data is visible over the raw query path
	kv := NewABCIStore(base)
	v, err := kv.Get([]byte("greeting"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), v)
	v, err = kv.Get([]byte("written"))
	require.NoError(t, err)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), v)
	ok, err := kv.Has([]byte("failed"))
	require.NoError(t, err)
	assert.False(t, ok)

	info := base.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, cres.Data, info.LastBlockAppHash)

	qres := base.Query(abci.RequestQuery{Path: "/nothing"})
	assert.NotEqual(t, uint32(0), qres.Code)

	// a restarted application loads the chain id from the database
	restarted := newTestApp(t, iavl.NewCommitStoreFromDB(db))
	assert.Equal(t, "test-chain-1", restarted.GetChainID())
	assert.Panics(t, func() {
		restarted.InitChain(abci.RequestInitChain{
			ChainId:       "test-chain-1",
			AppStateBytes: []byte(`{}`),
		})
	})
}

func TestBaseAppRequiresAppState(t *testing.T) {
	base := newTestApp(t, iavl.MockCommitStore())
	assert.Panics(t, func() {
		base.InitChain(abci.RequestInitChain{ChainId: "test-chain-1"})
	})
	assert.Panics(t, func() {
		base.InitChain(abci.RequestInitChain{ChainId: "bad", AppStateBytes: []byte(`{}`)})
	})
}

func TestBaseAppDecoderPanic(t *testing.T) {
	qr := deathnote.NewQueryRouter()
	s := NewStoreApp("dntest", iavl.MockCommitStore(), qr, context.Background())
	decoder := func([]byte) (deathnote.Tx, error) { panic("boom") }
	base := NewBaseApp(s, decoder, NewRouter(), false)

	res := base.DeliverTx([]byte("whatever"))
	assert.NotEqual(t, uint32(0), res.Code)
	chres := base.CheckTx([]byte("whatever"))
	assert.NotEqual(t, uint32(0), chres.Code)
}

func newTestApp(t testing.TB, cs iavl.CommitStore) *BaseApp {
	t.Helper()

	qr := deathnote.NewQueryRouter()
	RegisterQuery(qr)
	s := NewStoreApp("dntest", cs, qr, context.Background()).
		WithInit(greetingInitializer{})

	r := NewRouter()
	r.Handle("test/write", timeWriter{})
	r.Handle("test/fail", deathnotetest.WriteHandler{
		Key:   []byte("failed"),
		Value: []byte("yes"),
		Err:   errors.ErrState,
	})

	decoder := func(raw []byte) (deathnote.Tx, error) {
		return &deathnotetest.Tx{Msg: &deathnotetest.Msg{RoutePath: string(raw)}}, nil
	}
	return NewBaseApp(s, decoder, ChainDecorators(utils.NewSavepoint().OnDeliver()).WithHandler(r), true)
}

type greetingInitializer struct{}

func (greetingInitializer) FromGenesis(opts deathnote.Options, db deathnote.KVStore) error {
	var greeting string
	if err := opts.ReadOptions("greeting", &greeting); err != nil {
		return err
	}
	if greeting == "" {
		return nil
	}
	return db.Set([]byte("greeting"), []byte(greeting))
}

// timeWriter stores the block time and emits an event.
type timeWriter struct{}

func (timeWriter) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.CheckResult, error) {
	return &deathnote.CheckResult{}, nil
}

func (timeWriter) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.DeliverResult, error) {
	now, ok := deathnote.BlockTime(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "no block time")
	}
	if err := db.Set([]byte("written"), []byte(now.Format(time.RFC3339))); err != nil {
		return nil, err
	}
	return &deathnote.DeliverResult{Events: []deathnote.Event{testEvent("test/written")}}, nil
}

type testEvent string

func (e testEvent) EventKind() string { return string(e) }

type recordingSink struct {
	events []deathnote.Event
}

func (s *recordingSink) Publish(e deathnote.Event) {
	s.events = append(s.events, e)
}
