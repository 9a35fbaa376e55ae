package deathnote

// ReadOnlyKVStore answers point lookups. A missing key gives a nil value.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
}

// SetDeleter is the write half shared by KVStore and Batch. Callers must
// not modify key or value after the call.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store handlers work on.
//
// There is no range iteration. Every lookup is by exact key, and one to
// many relations are kept under a single key, see orm.MultiRef.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes that Write applies together.
type Batch interface {
	SetDeleter
	Write() error
}

// CacheableKVStore can stack a cache on top of itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap holds uncommitted writes that are visible to its own reads.
// Write passes them to the parent store and Discard drops them.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root store. Changes reach it through a
// CacheWrap and become durable with Commit.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	// Commit writes a new version and returns its id.
	Commit() (CommitID, error)

	// LoadLatestVersion opens the last complete version, an older one
	// if the last commit was interrupted.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID is the version number and the merkle root of a commit.
type CommitID struct {
	Version int64
	Hash    []byte
}
