package orm

import (
	"bytes"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
)

const indexPrefix = "_i."

// index stores all primary keys indexed under a value as a set, serialized
// and stored under a single key:
//
//	_i.<bucket>_<name>:<value>
//
// A unique index stores the primary key itself instead of a set.
type index struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
}

func newIndex(bucket, name string, indexer MultiKeyIndexer, unique bool) index {
	return index{
		name:   name,
		id:     []byte(indexPrefix + bucket + "_" + name + ":"),
		index:  indexer,
		unique: unique,
	}
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i index) indexKey(value []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(value))
	copy(out, i.id)
	copy(out[l:], value)
	return out
}

// Update handles updating the reference to the model in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
//
// Otherwise, it will check indexer(prev) and indexer(save)
// and make sure the key is now stored in the right location
func (i index) Update(db deathnote.KVStore, pk []byte, prev, save Model) error {
	var oldValues, newValues [][]byte
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}
	if prev != nil {
		vals, err := i.index(prev)
		if err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
		oldValues = vals
	}
	if save != nil {
		vals, err := i.index(save)
		if err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
		newValues = vals
	}

	toAdd := subtract(deduplicate(newValues), oldValues)
	toRemove := subtract(deduplicate(oldValues), newValues)

	// check unique constraints first so nothing is written on failure
	if i.unique {
		for _, v := range toAdd {
			has, err := db.Has(i.indexKey(v))
			if err != nil {
				return err
			}
			if has {
				return errors.Wrap(errors.ErrDuplicate, i.name)
			}
		}
	}

	for _, v := range toRemove {
		if err := i.remove(db, v, pk); err != nil {
			return err
		}
	}
	for _, v := range toAdd {
		if err := i.insert(db, v, pk); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the primary keys of all models indexed under given value, in
// ascending order.
func (i index) Keys(db deathnote.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal index")
	}
	return refs.Refs, nil
}

func (i index) remove(db deathnote.KVStore, value []byte, pk []byte) error {
	// don't deal with empty keys
	if len(value) == 0 {
		return nil
	}

	key := i.indexKey(value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	}
	if i.unique {
		// if something else was here, don't delete
		if !bytes.Equal(cur, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid model")
		}
		return db.Delete(key)
	}

	// otherwise, remove one from a list....
	var data MultiRef
	if err := data.Unmarshal(cur); err != nil {
		return err
	}
	if err := data.Remove(pk); err != nil {
		return err
	}
	// nothing left, delete this key
	if data.Size() == 0 {
		return db.Delete(key)
	}
	save, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, save)
}

func (i index) insert(db deathnote.KVStore, value []byte, pk []byte) error {
	// don't deal with empty keys
	if len(value) == 0 {
		return nil
	}

	key := i.indexKey(value)
	if i.unique {
		return db.Set(key, pk)
	}

	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	var data MultiRef
	if cur != nil {
		if err := data.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}
	save, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, save)
}

func deduplicate(s [][]byte) [][]byte {
	var out [][]byte
	for _, v := range s {
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// subtract returns all elements of minuend that are not in subtrahend.
func subtract(minuend [][]byte, subtrahend [][]byte) [][]byte {
	var r [][]byte
	for _, m := range minuend {
		if !contains(subtrahend, m) {
			r = append(r, m)
		}
	}
	return r
}

func contains(set [][]byte, v []byte) bool {
	for _, s := range set {
		if bytes.Equal(s, v) {
			return true
		}
	}
	return false
}
