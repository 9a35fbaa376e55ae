package store

import (
	"bytes"

	"github.com/UZHBCON/deathnote/errors"
	"github.com/google/btree"
)

// DefaultFreeListSize is the number of btree nodes kept for reuse when a
// cache wrap is created without a free list.
const DefaultFreeListSize = btree.DefaultFreeListSize

// btreeDegree is the degree of every cache tree. Caches hold the writes of
// a single block at most, so a small degree is enough.
const btreeDegree = 2

// BTreeCacheable adds a btree based CacheWrap to any KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache whose Write applies all changes to the
// wrapped store.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in memory store without persistence, for tests.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser lists the operations performed on a store, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in memory store along with the log of all
// operations run on it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheWrap keeps the writes of a transaction or block in a btree on
// top of a read only parent. Writes are recorded twice: in the tree for
// reads, and in the batch that Write flushes to the parent.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache reading through to parent and writing
// into batch. A nil free list allocates a new one; pass the list of an
// outer cache to share its nodes.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:   btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// CacheWrap stacks another cache on top of this one. Its Write only
// updates this cache.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all changes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all changes. Nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.tree.DeleteMin() != nil {
	}
}

// Set stores a copy of value under key.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	value = append([]byte(nil), value...)
	b.tree.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete marks the key as removed, hiding any value of the parent.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// Get returns the cached value, falling back to the parent for keys this
// cache never touched.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok, err := b.lookup(key)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return b.parent.Get(key)
	case e.deleted:
		return nil, nil
	default:
		return e.value, nil
	}
}

// Has is like Get but only reports presence.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok, err := b.lookup(key)
	switch {
	case err != nil:
		return false, err
	case !ok:
		return b.parent.Has(key)
	default:
		return !e.deleted, nil
	}
}

// lookup returns the entry cached for key, if any.
func (b BTreeCacheWrap) lookup(key []byte) (entry, bool, error) {
	item := b.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false, nil
	}
	e, ok := item.(entry)
	if !ok {
		return entry{}, false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
	}
	return e, true, nil
}

// entry is a write recorded in the cache. Deleted entries shadow the
// parent.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

// Less orders entries by key.
func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
