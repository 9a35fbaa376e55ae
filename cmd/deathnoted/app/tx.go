package app

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/x/cash"
	"github.com/UZHBCON/deathnote/x/sigs"
	"github.com/UZHBCON/deathnote/x/testament"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	RegisterCodec(cdc)
}

// RegisterCodec registers every message this application understands.
func RegisterCodec(c *amino.Codec) {
	deathnote.RegisterCodec(c)
	cash.RegisterCodec(c)
	testament.RegisterCodec(c)
}

// Tx is the envelope of every transaction sent to the chain: exactly one
// message and the signatures authorizing it.
type Tx struct {
	Msg        deathnote.Msg
	Signatures []*sigs.StdSignature
}

// make sure tx fulfills all interfaces
var _ deathnote.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)
var _ deathnote.Persistent = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (deathnote.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (deathnote.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures of this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes should only come from the data itself,
	// not previous signatures
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrType, err.Error())
	}
	return bz, nil
}

// Unmarshal loads a serialized transaction.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	return nil
}
