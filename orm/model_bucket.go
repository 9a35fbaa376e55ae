package orm

import (
	"reflect"
	"regexp"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type. Each model is stored under
//
//	<bucket>:<key>
//
// and may be indexed by any number of secondary indexes.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db deathnote.ReadOnlyKVStore, key []byte, dest Model) error

	// ByIndex returns the keys of all models that are indexed under given
	// value and loads those models into dest, a pointer to a slice of
	// models (or model pointers) of the bucket type.
	// ErrNotFound is not returned when nothing matches, the result is
	// empty instead.
	ByIndex(db deathnote.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error)

	// Put saves given model in the database. When key is nil, the bucket
	// sequence is used to generate one. The key is returned.
	Put(db deathnote.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db deathnote.KVStore, key []byte) error

	// Has returns nil if an entity with given primary key exists,
	// ErrNotFound otherwise.
	Has(db deathnote.ReadOnlyKVStore, key []byte) error

	// Register registers this bucket and all its indexes for queries under
	// /<name> and /<name>/<index>.
	Register(name string, r deathnote.QueryRouter)
}

// ModelBucketOption configures a model bucket.
type ModelBucketOption func(*modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return WithMultiKeyIndex(name, asMultiKeyIndexer(indexer), unique)
}

// WithMultiKeyIndex is like WithIndex, but a single model may be indexed
// under many values.
func WithMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("duplicated index name: " + name)
		}
		mb.indexes[name] = newIndex(mb.name, name, indexer, unique)
		mb.order = append(mb.order, name)
	}
}

// WithIDSequence configures the bucket to use given sequence instance for
// generating keys of models saved without one.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.seq = s
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given prototype.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   tp.Elem(),
		indexes: make(map[string]index),
		seq:     NewSequence(name, "id"),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]index
	// order keeps indexes updated in a deterministic order
	order []string
	seq   Sequence
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(mb.prefix)+len(key))
	copy(out, mb.prefix)
	copy(out[len(mb.prefix):], key)
	return out
}

func (mb *modelBucket) One(db deathnote.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %v", dest, reflect.PtrTo(mb.model))
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.name, err)
	}
	return nil
}

func (mb *modelBucket) load(db deathnote.ReadOnlyKVStore, key []byte) (Model, error) {
	m := reflect.New(mb.model).Interface().(Model)
	if err := mb.One(db, key, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (mb *modelBucket) ByIndex(db deathnote.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown index %q in %s", indexName, mb.name)
	}

	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice of models")
	}
	elemType := slice.Elem().Type().Elem()
	isPtr := elemType == reflect.PtrTo(mb.model)
	if !isPtr && elemType != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "cannot load %v into %v", mb.model, elemType)
	}

	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}
	result := reflect.MakeSlice(slice.Elem().Type(), 0, len(keys))
	for _, key := range keys {
		m, err := mb.load(db, key)
		if err != nil {
			return nil, errors.Wrapf(err, "index %s points to a missing entity", indexName)
		}
		v := reflect.ValueOf(m)
		if !isPtr {
			v = v.Elem()
		}
		result = reflect.Append(result, v)
	}
	slice.Elem().Set(result)
	return keys, nil
}

func (mb *modelBucket) Put(db deathnote.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	var prev Model
	if len(key) == 0 {
		next, err := mb.seq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "id sequence")
		}
		key = next
	} else {
		switch old, err := mb.load(db, key); {
		case err == nil:
			prev = old
		case errors.ErrNotFound.Is(err):
			// insert
		default:
			return nil, err
		}
	}

	for _, name := range mb.order {
		if err := mb.indexes[name].Update(db, key, prev, m); err != nil {
			return nil, errors.Wrapf(err, "cannot update %s index", name)
		}
	}

	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return key, nil
}

func (mb *modelBucket) Delete(db deathnote.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	for _, name := range mb.order {
		if err := mb.indexes[name].Update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "cannot update %s index", name)
		}
	}
	return db.Delete(mb.dbKey(key))
}

func (mb *modelBucket) Has(db deathnote.ReadOnlyKVStore, key []byte) error {
	has, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !has {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Register(name string, r deathnote.QueryRouter) {
	root := "/" + name
	r.Register(root, primaryQuery{mb})
	for _, idx := range mb.order {
		r.Register(root+"/"+idx, indexQuery{mb: mb, idx: mb.indexes[idx]})
	}
}

// primaryQuery returns the raw model stored under the exact key.
type primaryQuery struct {
	mb *modelBucket
}

func (q primaryQuery) Query(db deathnote.ReadOnlyKVStore, mod string, data []byte) ([]deathnote.Model, error) {
	if mod != deathnote.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	raw, err := db.Get(q.mb.dbKey(data))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return []deathnote.Model{deathnote.Pair(data, raw)}, nil
}

// indexQuery returns all raw models indexed under the exact value.
type indexQuery struct {
	mb  *modelBucket
	idx index
}

func (q indexQuery) Query(db deathnote.ReadOnlyKVStore, mod string, data []byte) ([]deathnote.Model, error) {
	if mod != deathnote.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	keys, err := q.idx.Keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]deathnote.Model, 0, len(keys))
	for _, key := range keys {
		raw, err := db.Get(q.mb.dbKey(key))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, errors.Wrapf(errors.ErrNotFound, "index %s points to a missing entity", q.idx.name)
		}
		res = append(res, deathnote.Pair(key, raw))
	}
	return res, nil
}
