package sigs

import (
	"github.com/UZHBCON/deathnote/crypto"
	"github.com/UZHBCON/deathnote/errors"
)

// SignedTx is a transaction the Decorator can authenticate.
type SignedTx interface {
	// GetSignBytes returns the bytes every signature covers: the
	// transaction without its signatures.
	GetSignBytes() ([]byte, error)

	GetSignatures() []*StdSignature
}

// StdSignature is one signature with the key to verify it and the nonce
// it consumes.
type StdSignature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
	Sequence  int64
}

// Validate checks the fields without verifying the signature.
func (s *StdSignature) Validate() error {
	switch {
	case s.Sequence < 0:
		return errors.Wrap(ErrInvalidSequence, "negative")
	case s.Pubkey == nil:
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	case s.Pubkey.Validate() != nil:
		return errors.Wrap(errors.ErrUnauthorized, "invalid public key")
	case s.Signature == nil:
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
