package orm

import (
	"github.com/UZHBCON/deathnote"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	deathnote.Persistent
	Validate() error
}

// MultiKeyIndexer calculates the secondary index keys for a given model.
// Returning no keys means the model is not indexed.
type MultiKeyIndexer func(Model) ([][]byte, error)

// Indexer calculates a single secondary index key for a given model.
type Indexer func(Model) ([]byte, error)

// asMultiKeyIndexer converts a single key indexer.
func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(m Model) ([][]byte, error) {
		key, err := indexer(m)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}
