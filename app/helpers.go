package app

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci Query interface as a ReadOnlyKVStore. It
// requires the application to register the raw "/" query path (see
// RegisterQuery).
//
// Wrap it with a bucket to reuse the key, index and parse logic of an
// extension in a client.
type ABCIStore struct {
	app abci.Application
}

var _ deathnote.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the committed state of given app.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get looks key up in the last committed state.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := ParseQueryResponse(a.app.Query(abci.RequestQuery{Path: "/", Data: key}))
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for a single key", len(models))
	}
}

// Has reports whether key holds a non empty value.
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return len(v) > 0, err
}
