package sigs

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/crypto"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/orm"
)

// BucketName holds one nonce record per public key.
const BucketName = "sigs"

// UserData is the public key of a signer and the nonce its next signature
// must use.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Wrap(ErrInvalidSequence, "negative")
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Wrap(ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, u)
}

// maxSequence is 2^53 - 1, the largest integer a JavaScript client can
// hold exactly.
const maxSequence = 1<<53 - 1

// CheckAndIncrementSequence consumes the nonce expected. It fails if the
// user is at another nonce or the next one would pass maxSequence.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// Bucket keys UserData by the address of the public key.
type Bucket struct {
	orm.ModelBucket
}

func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the record of pubkey. An unknown key starts at nonce
// zero and is not stored until Save.
func (b Bucket) GetOrCreate(db deathnote.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the user under the address of its public key.
func (b Bucket) Save(db deathnote.KVStore, user *UserData) error {
	if user.Pubkey == nil {
		return errors.Wrap(errors.ErrModel, "missing public key")
	}
	_, err := b.Put(db, user.Pubkey.Address(), user)
	return err
}
