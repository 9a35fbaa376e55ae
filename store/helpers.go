package store

import (
	"fmt"
)

// EmptyKVStore is the bottom layer of the in memory stores. It holds
// nothing and ignores writes.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has(key []byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error    { return nil }
func (EmptyKVStore) Delete(key []byte) error        { return nil }
func (e EmptyKVStore) NewBatch() Batch              { return NewNonAtomicBatch(e) }

// Op is a recorded write, either a set or a delete.
type Op struct {
	del   bool
	key   []byte
	value []byte
}

// SetOp records setting key to value.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp records deleting key.
func DelOp(key []byte) Op {
	return Op{del: true, key: key}
}

// Apply runs the operation against out.
func (o Op) Apply(out SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

func (o Op) IsSetOp() bool { return !o.del }
func (o Op) Key() []byte   { return o.key }
func (o Op) Value() []byte { return o.value }

func (o Op) String() string {
	if o.del {
		return fmt.Sprintf("delete %X", o.key)
	}
	return fmt.Sprintf("set %X=%X", o.key, o.value)
}

// NonAtomicBatch queues operations and applies them one by one on Write.
// A failure in the middle leaves the earlier writes applied, so it only
// suits the in memory caches, never a persistent store.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var (
	_ Batch     = (*NonAtomicBatch)(nil)
	_ ShowOpser = (*NonAtomicBatch)(nil)
)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write applies and clears the queue.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns the queued operations in order.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
