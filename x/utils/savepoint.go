package utils

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache
// is written when the handler succeeds and dropped when it fails, so a
// failed transaction leaves no partial writes. It is disabled for both
// phases until OnCheck or OnDeliver is called.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ deathnote.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Checker) (*deathnote.CheckResult, error) {
	cache, ok := s.cache(s.onCheck, db)
	if !ok {
		return next.Check(ctx, db, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := finish(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Deliverer) (*deathnote.DeliverResult, error) {
	cache, ok := s.cache(s.onDeliver, db)
	if !ok {
		return next.Deliver(ctx, db, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := finish(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (Savepoint) cache(enabled bool, db deathnote.KVStore) (deathnote.KVCacheWrap, bool) {
	if !enabled {
		return nil, false
	}
	c, ok := db.(deathnote.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return c.CacheWrap(), true
}

// finish writes the cache if the handler returned no error.
func finish(cache deathnote.KVCacheWrap, handlerErr error) error {
	if handlerErr != nil {
		cache.Discard()
		return handlerErr
	}
	return errors.Wrap(cache.Write(), "writing savepoint")
}
