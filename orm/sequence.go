package orm

import (
	"encoding/binary"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
)

// Sequence is a counter stored under _s.<bucket>:<name>. Its values are
// 8 byte big endian integers, so they sort in the store as they do as
// numbers. Testament ids come from a sequence.
type Sequence struct {
	id []byte
}

func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// NextVal increments the counter and returns the new value encoded.
func (s *Sequence) NextVal(db deathnote.KVStore) ([]byte, error) {
	v, err := s.next(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(v), nil
}

// NextInt increments the counter and returns the new value.
func (s *Sequence) NextInt(db deathnote.KVStore) (int64, error) {
	return s.next(db)
}

// Latest returns the last value handed out, zero if none was. It does not
// change the counter.
func (s *Sequence) Latest(db deathnote.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw)
}

func (s *Sequence) next(db deathnote.KVStore) (int64, error) {
	v, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	v++
	return v, db.Set(s.id, EncodeSequence(v))
}

// DecodeSequence reads an encoded value. Nil is zero.
func DecodeSequence(raw []byte) (int64, error) {
	switch len(raw) {
	case 0:
		if raw == nil {
			return 0, nil
		}
	case 8:
		return int64(binary.BigEndian.Uint64(raw)), nil
	}
	return 0, errors.Wrapf(errors.ErrInput, "sequence must be 8 bytes, got %d", len(raw))
}

func EncodeSequence(v int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(v))
	return raw
}
