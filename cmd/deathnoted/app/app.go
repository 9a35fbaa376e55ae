/*
Package app links together all the various components
to construct the deathnoted app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/app"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store/iavl"
	"github.com/UZHBCON/deathnote/x"
	"github.com/UZHBCON/deathnote/x/cash"
	"github.com/UZHBCON/deathnote/x/sigs"
	"github.com/UZHBCON/deathnote/x/testament"
	"github.com/UZHBCON/deathnote/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a default router, dispatching to the cash and testament
// handlers. Custody accounts of testaments are cash wallets.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, bank, testament.NewCustodyGuard())
	testament.RegisterRoutes(r, authFn, bank)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/", "/wallets", "/auth" and "/testaments"
func QueryRouter() deathnote.QueryRouter {
	r := deathnote.NewQueryRouter()
	r.RegisterAll(
		app.RegisterQuery,
		cash.RegisterQuery,
		sigs.RegisterQuery,
		testament.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis loaders of every extension. Testament
// balances are minted into their custody wallets.
func Initializers() deathnote.Initializer {
	return deathnote.ChainInitializers(
		cash.Initializer{},
		&testament.Initializer{Minter: cash.NewController(cash.NewBucket())},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp. A nil registerer disables the
// metrics decorator.
func Stack(reg prometheus.Registerer) deathnote.Handler {
	var metrics *utils.Metrics
	if reg != nil {
		metrics = utils.NewMetrics(reg)
	}
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h deathnote.Handler,
	tx deathnote.TxDecoder, dbPath string, debug bool) (*app.BaseApp, error) {

	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (deathnote.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
