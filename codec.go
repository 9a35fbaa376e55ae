package deathnote

import (
	amino "github.com/tendermint/go-amino"
)

// RegisterCodec registers the interfaces shared by all extensions. Every
// extension registers its concrete message types under the Msg interface.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterInterface((*Msg)(nil), nil)
}
