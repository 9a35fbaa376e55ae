package app

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
)

// CommitStore keeps one cache for DeliverTx and one for CheckTx on top of
// the committed state. Commit flushes the deliver cache and starts both
// caches anew.
type CommitStore struct {
	committed deathnote.CommitKVStore
	deliver   deathnote.KVCacheWrap
	check     deathnote.KVCacheWrap
}

// NewCommitStore loads the latest version of store. It panics if the
// version cannot be loaded.
func NewCommitStore(store deathnote.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and hash of the last commit.
func (cs *CommitStore) CommitInfo() (deathnote.CommitID, error) {
	return cs.committed.LatestVersion()
}

func (cs *CommitStore) Commit() (deathnote.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return deathnote.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.reset()
	return id, nil
}

// Committed returns a view of the last commit. Writes to it are lost.
func (cs *CommitStore) Committed() deathnote.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

func (cs *CommitStore) CheckStore() deathnote.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() deathnote.CacheableKVStore {
	return cs.deliver
}

// chainIDKey lives in the _dn: namespace, which no bucket uses.
const chainIDKey = "_dn:chainID"

// mustLoadChainID returns the stored chain id or an empty string. It
// panics if the store fails.
func mustLoadChainID(db deathnote.ReadOnlyKVStore) string {
	raw, err := db.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID stores chainID. It can be written only once.
func saveChainID(db deathnote.KVStore, chainID string) error {
	if !deathnote.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	key := []byte(chainIDKey)
	switch exists, err := db.Has(key); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	return errors.Wrap(db.Set(key, []byte(chainID)), "save chain id")
}
