package store

import "github.com/UZHBCON/deathnote"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = deathnote.ReadOnlyKVStore
	SetDeleter       = deathnote.SetDeleter
	KVStore          = deathnote.KVStore
	Batch            = deathnote.Batch
	CacheableKVStore = deathnote.CacheableKVStore
	KVCacheWrap      = deathnote.KVCacheWrap
	CommitKVStore    = deathnote.CommitKVStore
	CommitID         = deathnote.CommitID
	Model            = deathnote.Model
)

// Pair constructs a model from a key-value pair
var Pair = deathnote.Pair
