package orm

import (
	"testing"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/deathnotetest/assert"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store"
)

// counter is a test model with a unique owner and many tags.
type counter struct {
	Owner []byte
	Tags  [][]byte
	Count int64
}

func (c *counter) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(c) }
func (c *counter) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func counterByOwner(m Model) ([]byte, error) {
	c, ok := m.(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return c.Owner, nil
}

func counterByTag(m Model) ([][]byte, error) {
	c, ok := m.(*counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return c.Tags, nil
}

func newCounterBucket() ModelBucket {
	return NewModelBucket("counter", &counter{},
		WithIndex("owner", counterByOwner, true),
		WithMultiKeyIndex("tag", counterByTag, false),
	)
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	key, err := b.Put(db, nil, &counter{Owner: []byte("alice"), Count: 1})
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(1), key)

	key2, err := b.Put(db, nil, &counter{Owner: []byte("bob"), Count: 2})
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), key2)

	var c counter
	assert.Nil(t, b.One(db, key, &c))
	assert.Equal(t, int64(1), c.Count)
	assert.Equal(t, []byte("alice"), c.Owner)

	assert.Nil(t, b.Has(db, key2))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("missing")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("missing"), &c))

	// an explicit key overwrites
	c.Count = 7
	_, err = b.Put(db, key, &c)
	assert.Nil(t, err)
	var got counter
	assert.Nil(t, b.One(db, key, &got))
	assert.Equal(t, int64(7), got.Count)

	_, err = b.Put(db, nil, &counter{Count: -1})
	assert.IsErr(t, errors.ErrModel, err)

	assert.IsErr(t, errors.ErrType, b.One(db, key, &MultiRef{}))
	_, err = b.Put(db, nil, &MultiRef{Refs: [][]byte{[]byte("x")}})
	assert.IsErr(t, errors.ErrType, err)
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	key, err := b.Put(db, nil, &counter{Owner: []byte("alice")})
	assert.Nil(t, err)

	_, err = b.Put(db, nil, &counter{Owner: []byte("alice")})
	assert.IsErr(t, errors.ErrDuplicate, err)

	// updating the same entity keeps the index
	_, err = b.Put(db, key, &counter{Owner: []byte("alice"), Count: 3})
	assert.Nil(t, err)

	var found []counter
	keys, err := b.ByIndex(db, "owner", []byte("alice"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{key}, keys)
	assert.Equal(t, 1, len(found))
	assert.Equal(t, int64(3), found[0].Count)

	// moving the entity to another owner frees the old value
	_, err = b.Put(db, key, &counter{Owner: []byte("carl")})
	assert.Nil(t, err)
	keys, err = b.ByIndex(db, "owner", []byte("alice"), &found)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))
	_, err = b.Put(db, nil, &counter{Owner: []byte("alice")})
	assert.Nil(t, err)
}

func TestModelBucketMultiKeyIndex(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	k1, err := b.Put(db, nil, &counter{Owner: []byte("a"), Tags: [][]byte{[]byte("red"), []byte("blue")}})
	assert.Nil(t, err)
	k2, err := b.Put(db, nil, &counter{Owner: []byte("b"), Tags: [][]byte{[]byte("red"), []byte("red")}})
	assert.Nil(t, err)

	var found []*counter
	keys, err := b.ByIndex(db, "tag", []byte("red"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{k1, k2}, keys)
	assert.Equal(t, 2, len(found))
	assert.Equal(t, []byte("b"), found[1].Owner)

	keys, err = b.ByIndex(db, "tag", []byte("blue"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{k1}, keys)

	// replacing tags updates the index
	_, err = b.Put(db, k1, &counter{Owner: []byte("a"), Tags: [][]byte{[]byte("green")}})
	assert.Nil(t, err)
	keys, err = b.ByIndex(db, "tag", []byte("red"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{k2}, keys)
	keys, err = b.ByIndex(db, "tag", []byte("blue"), &found)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))

	// delete drops all references
	assert.Nil(t, b.Delete(db, k2))
	keys, err = b.ByIndex(db, "tag", []byte("red"), &found)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, k2))

	_, err = b.ByIndex(db, "unknown", []byte("red"), &found)
	assert.IsErr(t, errors.ErrInput, err)
	_, err = b.ByIndex(db, "tag", []byte("red"), found)
	assert.IsErr(t, errors.ErrType, err)
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()
	qr := deathnote.NewQueryRouter()
	b.Register("counters", qr)

	key, err := b.Put(db, nil, &counter{Owner: []byte("alice"), Tags: [][]byte{[]byte("x")}})
	assert.Nil(t, err)

	res, err := qr.Handler("/counters").Query(db, "", key)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, key, res[0].Key)
	var c counter
	assert.Nil(t, c.Unmarshal(res[0].Value))
	assert.Equal(t, []byte("alice"), c.Owner)

	res, err = qr.Handler("/counters/tag").Query(db, "", []byte("x"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	res, err = qr.Handler("/counters/owner").Query(db, "", []byte("nobody"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	_, err = qr.Handler("/counters").Query(db, "prefix", key)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestNewModelBucketPanics(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("Bad Name", &counter{}) })
	assert.Panics(t, func() {
		NewModelBucket("counter", &counter{},
			WithIndex("owner", counterByOwner, true),
			WithIndex("owner", counterByOwner, true),
		)
	})
}
