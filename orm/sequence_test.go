package orm

import (
	"testing"

	"github.com/UZHBCON/deathnote/deathnotetest/assert"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("test", "x")
	other := NewSequence("test", "y")

	latest, err := s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), latest)

	v, err := s.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), v)

	raw, err := s.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), raw)

	v, err = other.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), v)

	latest, err = s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), latest)

	_, err = DecodeSequence([]byte{1, 2})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestMultiRef(t *testing.T) {
	m, err := NewMultiRef([]byte("c"), []byte("a"), []byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)

	assert.IsErr(t, errors.ErrDuplicate, m.Add([]byte("b")))
	assert.Nil(t, m.Remove([]byte("b")))
	assert.IsErr(t, errors.ErrNotFound, m.Remove([]byte("b")))
	assert.Equal(t, 2, m.Size())

	raw, err := m.Marshal()
	assert.Nil(t, err)
	var back MultiRef
	assert.Nil(t, back.Unmarshal(raw))
	assert.Equal(t, m.Refs, back.Refs)

	assert.IsErr(t, errors.ErrEmpty, (&MultiRef{}).Validate())
}
