package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/crypto"
	"github.com/UZHBCON/deathnote/errors"
)

// SignCodeV1 prefixes the signed payload and versions its layout.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of tx and consumes the
// nonce of each signer. It returns the signer conditions in the order of
// the signatures, an empty list for an unsigned transaction. One invalid
// signature fails the whole transaction.
func VerifyTxSignatures(db deathnote.KVStore, tx SignedTx, chainID string) ([]deathnote.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]deathnote.Condition, len(sigs))
	for i, sig := range sigs {
		if signers[i], err = VerifySignature(db, sig, payload, chainID); err != nil {
			return nil, err
		}
	}
	return signers, nil
}

// VerifySignature checks sig over payload for chainID. The signature must
// use the next nonce of its key. On success the nonce is incremented in
// db and the condition of the key is returned.
func VerifySignature(db deathnote.KVStore, sig *StdSignature, payload []byte, chainID string) (deathnote.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	signBytes, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	user, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(signBytes, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest of
//
//	SignCodeV1 | len(chainID) as one byte | chainID | seq as 8 bytes big endian | payload
//
// A fixed size digest is what the ed25519 keys sign.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !deathnote.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	h.Write(nonce[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

// BuildSignBytesTx is BuildSignBytes for the payload of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs tx for chainID with the nonce seq. The signer must not
// have used seq before or the transaction is rejected as a replay.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	signBytes, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}

// NextNonce returns the sequence the owner of pubkey must sign the next
// transaction with.
func NextNonce(db deathnote.ReadOnlyKVStore, pubkey *crypto.PublicKey) (int64, error) {
	user, err := NewBucket().GetOrCreate(db, pubkey)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}
